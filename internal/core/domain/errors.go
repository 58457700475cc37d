package domain

import "errors"

// Authorization and gate errors.
var ErrUnauthorized = errors.New("not authorized to perform this action")
var ErrProtocolLocked = errors.New("protocol is locked")

// Airdrop grant errors.
var ErrInstructionsNotCorrect = errors.New("airdrop grant instructions not correct")

// Token invariant errors. The pre/post split is deliberate: a dirty holding
// account before the mint and a failed mint afterwards are different faults.
var ErrInvalidBalancePreMint = errors.New("invalid token balance before mint")
var ErrInvalidBalancePostMint = errors.New("invalid token balance after mint")

// Point balance errors.
var ErrInsufficientPoints = errors.New("insufficient reward points")

// Lifecycle errors.
var ErrInvalidTransition = errors.New("invalid order status transition")
var ErrOrderNotTerminal = errors.New("order is not in a terminal status")

// Record existence errors.
var ErrProtocolNotInitialized = errors.New("protocol not initialized")
var ErrProtocolExists = errors.New("protocol already initialized")
var ErrCapabilityNotFound = errors.New("capability record not found")
var ErrCapabilityExists = errors.New("capability record already exists")
var ErrRestaurantNotFound = errors.New("restaurant not found")
var ErrRestaurantExists = errors.New("restaurant already exists")
var ErrInventoryNotFound = errors.New("inventory item not found")
var ErrInventoryExists = errors.New("inventory item already exists")
var ErrMenuItemNotFound = errors.New("menu item not found")
var ErrMenuItemExists = errors.New("menu item already exists")
var ErrCustomerNotFound = errors.New("customer not enrolled")
var ErrCustomerExists = errors.New("customer already enrolled")
var ErrCredentialNotFound = errors.New("membership credential not found")
var ErrOrderNotFound = errors.New("order not found")
var ErrOrderExists = errors.New("order already exists")
var ErrRewardNotFound = errors.New("reward item not found")
var ErrRewardExists = errors.New("reward item already exists")

// Auth layer errors.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// Token ledger errors.
var ErrInsufficientFunds = errors.New("insufficient token balance")
var ErrMintNotFound = errors.New("token mint not found")
var ErrMintExists = errors.New("token mint already exists")
