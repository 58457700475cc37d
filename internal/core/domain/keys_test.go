package domain

import "testing"

func TestDeriveKeyDeterministic(t *testing.T) {
	a := DeriveKey(KindOrder, "order-1", "cafe-1")
	b := DeriveKey(KindOrder, "order-1", "cafe-1")
	if a != b {
		t.Errorf("same seeds derived different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("got key length %d, want 64 hex chars", len(a))
	}
}

func TestDeriveKeySeedBoundaries(t *testing.T) {
	// Length prefixing keeps adjacent seeds from bleeding into each other.
	if DeriveKey("x", "ab", "c") == DeriveKey("x", "a", "bc") {
		t.Error("shifted seed boundary produced the same key")
	}
	if DeriveKey("x", "ab") == DeriveKey("xa", "b") {
		t.Error("kind/seed boundary shift produced the same key")
	}
}

func TestDeriveKeyKindsDisjoint(t *testing.T) {
	// The same seed tuple under different kinds must address different records.
	if InventoryKey("margherita", "cafe-1") == MenuItemKey("margherita", "cafe-1") {
		t.Error("inventory and menu keys collide for the same (sku, restaurant)")
	}
	if RestaurantAdminKey("key-1", "cafe-1") == EmployeeKey("key-1", "cafe-1") {
		t.Error("restaurant admin and employee keys collide for the same (owner, restaurant)")
	}
}
