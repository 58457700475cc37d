package ports

import (
	"context"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

// ProtocolService owns the global kill switch.
type ProtocolService interface {
	// Initialize creates the protocol record locked. Multisig only.
	Initialize(ctx context.Context, actor string) error
	// ToggleLock flips the gate. Multisig only.
	ToggleLock(ctx context.Context, actor string) (locked bool, err error)
	Status(ctx context.Context) (*domain.Protocol, error)
}

// CapabilityService derives, creates, and verifies capability records. It is
// the trust root consulted by every privileged mutation.
type CapabilityService interface {
	CreateAdmin(ctx context.Context, actor, newAdminKey, username string) (*domain.Admin, error)
	RemoveAdmin(ctx context.Context, actor, adminKey string) error

	CreateRestaurantAdmin(ctx context.Context, actor, restaurantRef, adminKey, username string) (*domain.RestaurantAdmin, error)
	RemoveRestaurantAdmin(ctx context.Context, actor, restaurantRef, adminKey string) error

	CreateEmployee(ctx context.Context, actor, restaurantRef, employeeKey, username string) (*domain.Employee, error)
	RemoveEmployee(ctx context.Context, actor, restaurantRef, employeeKey string) error

	// RequireProtocolAdmin verifies actor is the multisig or holds an
	// AdminRecord. domain.ErrUnauthorized otherwise.
	RequireProtocolAdmin(ctx context.Context, actor string) error
	// RequireRestaurantAdmin verifies actor holds a RestaurantAdminRecord
	// whose stored restaurant_ref equals restaurantRef, falling back to
	// protocol-admin authority. domain.ErrUnauthorized otherwise.
	RequireRestaurantAdmin(ctx context.Context, actor, restaurantRef string) error
}

// CreateRestaurantInput carries the fields for tenant creation.
type CreateRestaurantInput struct {
	Reference        string
	Name             string
	Symbol           string
	URL              string
	OwnerKey         string
	CurrencyDecimals int
}

// RestaurantService manages tenants.
type RestaurantService interface {
	Create(ctx context.Context, actor string, input CreateRestaurantInput) (*domain.Restaurant, error)
	Close(ctx context.Context, actor, reference string) error
	Get(ctx context.Context, reference string) (*domain.Restaurant, error)
}

// InventoryInput carries all replaceable inventory fields.
type InventoryInput struct {
	SKU      string
	Category string
	Name     string
	Price    float64
	Stock    float64
}

// MenuItemInput carries all menu item fields.
type MenuItemInput struct {
	SKU         string
	Category    string
	Name        string
	Price       float64
	Ingredients []string
	Active      bool
}

// CatalogService manages inventory and menu records under restaurant-admin
// authority.
type CatalogService interface {
	AddInventory(ctx context.Context, actor, restaurantRef string, input InventoryInput) (*domain.InventoryItem, error)
	// UpdateInventory replaces all fields (full-replace semantics); only
	// last_order survives from the previous record.
	UpdateInventory(ctx context.Context, actor, restaurantRef string, input InventoryInput) (*domain.InventoryItem, error)
	RemoveInventory(ctx context.Context, actor, restaurantRef, sku string) error

	AddMenuItem(ctx context.Context, actor, restaurantRef string, input MenuItemInput) (*domain.MenuItem, error)
	SetMenuItemActive(ctx context.Context, actor, restaurantRef, sku string, active bool) error
	RemoveMenuItem(ctx context.Context, actor, restaurantRef, sku string) error
	ListMenu(ctx context.Context, restaurantRef string) ([]*domain.MenuItem, error)
}

// EnrollCustomerInput carries enrollment parameters.
type EnrollCustomerInput struct {
	CustomerKey string
	ID          string
	MetadataURI string
}

// CredentialView is the customer-facing view of a membership credential.
type CredentialView struct {
	CredentialRef string `json:"credential_ref"`
	MintKey       string `json:"mint_key"`
	RewardPoints  uint64 `json:"reward_points"`
	MemberSince   int64  `json:"member_since"`
}

// MembershipService enrolls customers and exposes credential reads. Point
// mutation happens only through order and reward operations.
type MembershipService interface {
	Enroll(ctx context.Context, actor, restaurantRef string, input EnrollCustomerInput) (*CredentialView, error)
	GetCredential(ctx context.Context, customerKey, restaurantRef string) (*CredentialView, error)
}

// PlaceOrderInput carries order placement parameters.
type PlaceOrderInput struct {
	OrderRef string
	Items    []string
	Total    float64
}

// OrderResult is returned after placement.
type OrderResult struct {
	OrderRef     string
	Status       domain.OrderStatus
	Total        float64
	PointsEarned uint64
	PointBalance uint64
	CreatedAt    int64
}

// OrderService drives the order lifecycle.
type OrderService interface {
	Place(ctx context.Context, customerKey, restaurantRef string, input PlaceOrderInput) (*OrderResult, error)
	UpdateStatus(ctx context.Context, actor, restaurantRef, orderRef string, status domain.OrderStatus) (*domain.CustomerOrder, error)
	Cancel(ctx context.Context, customerKey, restaurantRef, orderRef string) (*domain.CustomerOrder, error)
	Close(ctx context.Context, actor, restaurantRef, orderRef string) error
	Get(ctx context.Context, actor, restaurantRef, orderRef string) (*domain.CustomerOrder, error)
}

// CreateRewardInput carries reward creation parameters.
type CreateRewardInput struct {
	RewardRef string
	Category  string
	Cost      uint64
	URI       string
}

// RedeemResult is returned after a successful redemption or airdrop.
type RedeemResult struct {
	RewardRef    string
	MintKey      string
	PointBalance uint64
}

// AirdropGrant is the off-chain-issued authorization for a free reward grant:
// an ed25519 signature by the fixed admin signing key over a message that
// embeds the target customer's key and an expiry.
type AirdropGrant struct {
	// Message is the canonical signed payload.
	Message []byte
	// Signature is the ed25519 signature over Message.
	Signature []byte
}

// RewardService manages reward items, redemption, and airdrops.
type RewardService interface {
	Create(ctx context.Context, actor, restaurantRef string, input CreateRewardInput) (*domain.RewardItem, error)
	Remove(ctx context.Context, actor, restaurantRef, rewardRef string) error
	Redeem(ctx context.Context, customerKey, restaurantRef, rewardRef string) (*RedeemResult, error)
	Airdrop(ctx context.Context, actor, restaurantRef, rewardRef, customerKey string, grant AirdropGrant) (*RedeemResult, error)
}

// AuthService implements the login layer.
type AuthService interface {
	Register(ctx context.Context, username, password, email, role, actorKey string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
