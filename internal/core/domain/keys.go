// Record addresses are deterministic: every entity lives at a key derived
// from a fixed kind tag plus its seed tuple. Knowing the seeds is the only
// way to name a record, and a unique index on the derived key makes
// "exactly one record per seed tuple" a storage-level guarantee.
package domain

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Record kind tags used as the first derivation seed.
const (
	KindProtocol        = "protocol"
	KindAdmin           = "admin_state"
	KindRestaurantAdmin = "restaurant_admin_state"
	KindEmployee        = "employee_state"
	KindRestaurant      = "restaurant"
	KindInventory       = "inventory_state"
	KindMenu            = "menu_state"
	KindCustomer        = "customer"
	KindOrder           = "order_state"
	KindReward          = "reward"
	KindMint            = "mint"
)

// DeriveKey computes the address of a record from its kind and seeds.
// Seeds are length-prefixed before hashing so that ("ab","c") and ("a","bc")
// never collide.
func DeriveKey(kind string, seeds ...string) string {
	h := blake3.New(32, nil)
	writeSeed(h, kind)
	for _, s := range seeds {
		writeSeed(h, s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeSeed(h *blake3.Hasher, s string) {
	_, _ = h.Write([]byte{byte(len(s) >> 8), byte(len(s))})
	_, _ = h.Write([]byte(s))
}

// ProtocolKey returns the singleton protocol record address.
func ProtocolKey() string { return DeriveKey(KindProtocol) }

// AdminKey addresses a protocol-wide admin capability.
func AdminKey(ownerKey string) string { return DeriveKey(KindAdmin, ownerKey) }

// RestaurantAdminKey addresses a restaurant-scoped admin capability.
func RestaurantAdminKey(ownerKey, restaurantRef string) string {
	return DeriveKey(KindRestaurantAdmin, ownerKey, restaurantRef)
}

// EmployeeKey addresses a restaurant-scoped employee capability.
func EmployeeKey(ownerKey, restaurantRef string) string {
	return DeriveKey(KindEmployee, ownerKey, restaurantRef)
}

// RestaurantKey addresses a tenant record.
func RestaurantKey(reference string) string { return DeriveKey(KindRestaurant, reference) }

// InventoryKey addresses a stock record within a restaurant.
func InventoryKey(sku, restaurantRef string) string {
	return DeriveKey(KindInventory, sku, restaurantRef)
}

// MenuItemKey addresses a sellable item within a restaurant.
func MenuItemKey(sku, restaurantRef string) string {
	return DeriveKey(KindMenu, sku, restaurantRef)
}

// CustomerKey addresses a customer profile at one restaurant.
func CustomerKey(ownerKey, restaurantRef string) string {
	return DeriveKey(KindCustomer, ownerKey, restaurantRef)
}

// OrderKey addresses an order within a restaurant.
func OrderKey(orderRef, restaurantRef string) string {
	return DeriveKey(KindOrder, orderRef, restaurantRef)
}

// RewardKey addresses a redeemable reward within a restaurant.
func RewardKey(rewardRef, restaurantRef string) string {
	return DeriveKey(KindReward, rewardRef, restaurantRef)
}

// MintKey addresses the token mint attached to a record (credential or reward).
func MintKey(recordKey string) string { return DeriveKey(KindMint, recordKey) }
