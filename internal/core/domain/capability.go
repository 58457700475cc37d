package domain

import "time"

// CapabilityKind distinguishes the three privilege levels. Each level is a
// separate record type keyed by its own derived address, not a role field on
// a shared account.
type CapabilityKind string

const (
	CapabilityProtocolAdmin   CapabilityKind = "protocol_admin"
	CapabilityRestaurantAdmin CapabilityKind = "restaurant_admin"
	CapabilityEmployee        CapabilityKind = "employee"
)

// Admin is a protocol-wide admin capability record.
type Admin struct {
	OwnerKey  string    `json:"owner_key" bson:"owner_key"`
	Username  string    `json:"username" bson:"username"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// RestaurantAdmin is an admin capability scoped to one restaurant. Its stored
// RestaurantRef must equal the restaurant targeted by any operation it
// authorizes; that comparison is what prevents cross-tenant privilege leaks.
type RestaurantAdmin struct {
	OwnerKey      string    `json:"owner_key" bson:"owner_key"`
	RestaurantRef string    `json:"restaurant_ref" bson:"restaurant_ref"`
	Username      string    `json:"username" bson:"username"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Employee is the low-privilege capability scoped to one restaurant.
type Employee struct {
	OwnerKey      string    `json:"owner_key" bson:"owner_key"`
	RestaurantRef string    `json:"restaurant_ref" bson:"restaurant_ref"`
	Username      string    `json:"username" bson:"username"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
