package domain

import "time"

// CustomerProfile exists once per (customer, restaurant) pair, created at
// enrollment and never removed in the normal flow.
type CustomerProfile struct {
	ID            string    `json:"id" bson:"id"`
	RestaurantRef string    `json:"restaurant_ref" bson:"restaurant_ref"`
	OwnerKey      string    `json:"owner_key" bson:"owner_key"`
	CredentialRef string    `json:"credential_ref" bson:"credential_ref"`
	MemberSince   time.Time `json:"member_since" bson:"member_since"`
}

// MembershipCredential is the non-fungible enrollment credential carrying the
// customer's point balance. RewardPoints never goes negative: every decrement
// is a guarded conditional update that fails outright on insufficient funds.
type MembershipCredential struct {
	ID           string `json:"id" bson:"id"`
	MintKey      string `json:"mint_key" bson:"mint_key"`
	RewardPoints uint64 `json:"reward_points" bson:"reward_points"`
}
