package ports

import (
	"context"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

// ProtocolRepository persists the singleton protocol gate record.
type ProtocolRepository interface {
	// Get returns the protocol record, or domain.ErrProtocolNotInitialized.
	Get(ctx context.Context) (*domain.Protocol, error)
	// Create stores the initial record; domain.ErrProtocolExists on replay.
	Create(ctx context.Context, p *domain.Protocol) error
	SetLocked(ctx context.Context, locked bool) error
}

// CapabilityRepository persists the three capability record types. Each record
// lives at its derived address; creation of a duplicate seed tuple fails with
// the corresponding exists error.
type CapabilityRepository interface {
	CreateAdmin(ctx context.Context, a *domain.Admin) error
	GetAdmin(ctx context.Context, ownerKey string) (*domain.Admin, error)
	DeleteAdmin(ctx context.Context, ownerKey string) error

	CreateRestaurantAdmin(ctx context.Context, a *domain.RestaurantAdmin) error
	GetRestaurantAdmin(ctx context.Context, ownerKey, restaurantRef string) (*domain.RestaurantAdmin, error)
	DeleteRestaurantAdmin(ctx context.Context, ownerKey, restaurantRef string) error

	CreateEmployee(ctx context.Context, e *domain.Employee) error
	GetEmployee(ctx context.Context, ownerKey, restaurantRef string) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, ownerKey, restaurantRef string) error
}

// RestaurantRepository persists tenant records.
type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	Get(ctx context.Context, reference string) (*domain.Restaurant, error)
	Delete(ctx context.Context, reference string) error
	// IncrementCustomerCount bumps the eventually-consistent enrollment counter.
	IncrementCustomerCount(ctx context.Context, reference string) error
}

// CatalogRepository persists inventory and menu records.
type CatalogRepository interface {
	CreateInventory(ctx context.Context, item *domain.InventoryItem) error
	GetInventory(ctx context.Context, sku, restaurantRef string) (*domain.InventoryItem, error)
	// ReplaceInventory overwrites every field except last_order.
	ReplaceInventory(ctx context.Context, item *domain.InventoryItem) error
	TouchInventoryLastOrder(ctx context.Context, sku, restaurantRef string, ts int64) error
	DeleteInventory(ctx context.Context, sku, restaurantRef string) error

	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, sku, restaurantRef string) (*domain.MenuItem, error)
	// SetMenuItemActive flips only the active flag.
	SetMenuItemActive(ctx context.Context, sku, restaurantRef string, active bool) error
	DeleteMenuItem(ctx context.Context, sku, restaurantRef string) error
	ListActiveMenu(ctx context.Context, restaurantRef string) ([]*domain.MenuItem, error)
}

// CustomerRepository persists customer profiles and membership credentials.
type CustomerRepository interface {
	CreateProfile(ctx context.Context, p *domain.CustomerProfile) error
	GetProfile(ctx context.Context, ownerKey, restaurantRef string) (*domain.CustomerProfile, error)
	// DeleteProfile removes the profile record. Used to unwind a partially
	// completed enrollment.
	DeleteProfile(ctx context.Context, ownerKey, restaurantRef string) error

	CreateCredential(ctx context.Context, c *domain.MembershipCredential) error
	GetCredential(ctx context.Context, credentialRef string) (*domain.MembershipCredential, error)
	DeleteCredential(ctx context.Context, credentialRef string) error
	// AddPoints atomically increments the credential's point balance and
	// returns the new balance.
	AddPoints(ctx context.Context, credentialRef string, delta uint64) (uint64, error)
	// SpendPoints atomically decrements the balance only when the current
	// balance covers cost; otherwise domain.ErrInsufficientPoints and no
	// change. Returns the new balance on success.
	SpendPoints(ctx context.Context, credentialRef string, cost uint64) (uint64, error)
}

// OrderRepository persists order records.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.CustomerOrder) error
	Get(ctx context.Context, orderRef, restaurantRef string) (*domain.CustomerOrder, error)
	// UpdateStatus transitions the order from exactly the given status,
	// stamping updatedAt. domain.ErrInvalidTransition when the stored status
	// no longer matches from (lost race or illegal jump).
	UpdateStatus(ctx context.Context, orderRef, restaurantRef string, from, to domain.OrderStatus, updatedAt int64) error
	Delete(ctx context.Context, orderRef, restaurantRef string) error
}

// RewardRepository persists reward item records.
type RewardRepository interface {
	Create(ctx context.Context, r *domain.RewardItem) error
	Get(ctx context.Context, rewardRef, restaurantRef string) (*domain.RewardItem, error)
	Delete(ctx context.Context, rewardRef, restaurantRef string) error
}

// AuthRepository persists login users.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
