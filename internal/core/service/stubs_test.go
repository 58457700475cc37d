package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProtocolRepo struct {
	record *domain.Protocol
}

func (r *stubProtocolRepo) Get(_ context.Context) (*domain.Protocol, error) {
	if r.record == nil {
		return nil, domain.ErrProtocolNotInitialized
	}
	clone := *r.record
	return &clone, nil
}

func (r *stubProtocolRepo) Create(_ context.Context, p *domain.Protocol) error {
	if r.record != nil {
		return domain.ErrProtocolExists
	}
	clone := *p
	r.record = &clone
	return nil
}

func (r *stubProtocolRepo) SetLocked(_ context.Context, locked bool) error {
	if r.record == nil {
		return domain.ErrProtocolNotInitialized
	}
	r.record.Locked = locked
	return nil
}

type stubCapabilityRepo struct {
	admins           map[string]*domain.Admin
	restaurantAdmins map[string]*domain.RestaurantAdmin
	employees        map[string]*domain.Employee
}

func newStubCapabilityRepo() *stubCapabilityRepo {
	return &stubCapabilityRepo{
		admins:           make(map[string]*domain.Admin),
		restaurantAdmins: make(map[string]*domain.RestaurantAdmin),
		employees:        make(map[string]*domain.Employee),
	}
}

func (r *stubCapabilityRepo) CreateAdmin(_ context.Context, a *domain.Admin) error {
	key := domain.AdminKey(a.OwnerKey)
	if _, ok := r.admins[key]; ok {
		return domain.ErrCapabilityExists
	}
	clone := *a
	r.admins[key] = &clone
	return nil
}

func (r *stubCapabilityRepo) GetAdmin(_ context.Context, ownerKey string) (*domain.Admin, error) {
	a, ok := r.admins[domain.AdminKey(ownerKey)]
	if !ok {
		return nil, domain.ErrCapabilityNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubCapabilityRepo) DeleteAdmin(_ context.Context, ownerKey string) error {
	key := domain.AdminKey(ownerKey)
	if _, ok := r.admins[key]; !ok {
		return domain.ErrCapabilityNotFound
	}
	delete(r.admins, key)
	return nil
}

func (r *stubCapabilityRepo) CreateRestaurantAdmin(_ context.Context, a *domain.RestaurantAdmin) error {
	key := domain.RestaurantAdminKey(a.OwnerKey, a.RestaurantRef)
	if _, ok := r.restaurantAdmins[key]; ok {
		return domain.ErrCapabilityExists
	}
	clone := *a
	r.restaurantAdmins[key] = &clone
	return nil
}

func (r *stubCapabilityRepo) GetRestaurantAdmin(_ context.Context, ownerKey, restaurantRef string) (*domain.RestaurantAdmin, error) {
	a, ok := r.restaurantAdmins[domain.RestaurantAdminKey(ownerKey, restaurantRef)]
	if !ok {
		return nil, domain.ErrCapabilityNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubCapabilityRepo) DeleteRestaurantAdmin(_ context.Context, ownerKey, restaurantRef string) error {
	key := domain.RestaurantAdminKey(ownerKey, restaurantRef)
	if _, ok := r.restaurantAdmins[key]; !ok {
		return domain.ErrCapabilityNotFound
	}
	delete(r.restaurantAdmins, key)
	return nil
}

func (r *stubCapabilityRepo) CreateEmployee(_ context.Context, e *domain.Employee) error {
	key := domain.EmployeeKey(e.OwnerKey, e.RestaurantRef)
	if _, ok := r.employees[key]; ok {
		return domain.ErrCapabilityExists
	}
	clone := *e
	r.employees[key] = &clone
	return nil
}

func (r *stubCapabilityRepo) GetEmployee(_ context.Context, ownerKey, restaurantRef string) (*domain.Employee, error) {
	e, ok := r.employees[domain.EmployeeKey(ownerKey, restaurantRef)]
	if !ok {
		return nil, domain.ErrCapabilityNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubCapabilityRepo) DeleteEmployee(_ context.Context, ownerKey, restaurantRef string) error {
	key := domain.EmployeeKey(ownerKey, restaurantRef)
	if _, ok := r.employees[key]; !ok {
		return domain.ErrCapabilityNotFound
	}
	delete(r.employees, key)
	return nil
}

type stubRestaurantRepo struct {
	byRef map[string]*domain.Restaurant
}

func newStubRestaurantRepo() *stubRestaurantRepo {
	return &stubRestaurantRepo{byRef: make(map[string]*domain.Restaurant)}
}

func (r *stubRestaurantRepo) Create(_ context.Context, restaurant *domain.Restaurant) error {
	if _, ok := r.byRef[restaurant.Reference]; ok {
		return domain.ErrRestaurantExists
	}
	clone := *restaurant
	r.byRef[restaurant.Reference] = &clone
	return nil
}

func (r *stubRestaurantRepo) Get(_ context.Context, reference string) (*domain.Restaurant, error) {
	restaurant, ok := r.byRef[reference]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	clone := *restaurant
	return &clone, nil
}

func (r *stubRestaurantRepo) Delete(_ context.Context, reference string) error {
	if _, ok := r.byRef[reference]; !ok {
		return domain.ErrRestaurantNotFound
	}
	delete(r.byRef, reference)
	return nil
}

func (r *stubRestaurantRepo) IncrementCustomerCount(_ context.Context, reference string) error {
	restaurant, ok := r.byRef[reference]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	restaurant.CustomerCount++
	return nil
}

type stubCatalogRepo struct {
	inventory map[string]*domain.InventoryItem
	menu      map[string]*domain.MenuItem
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		inventory: make(map[string]*domain.InventoryItem),
		menu:      make(map[string]*domain.MenuItem),
	}
}

func (r *stubCatalogRepo) CreateInventory(_ context.Context, item *domain.InventoryItem) error {
	key := domain.InventoryKey(item.SKU, item.RestaurantRef)
	if _, ok := r.inventory[key]; ok {
		return domain.ErrInventoryExists
	}
	clone := *item
	r.inventory[key] = &clone
	return nil
}

func (r *stubCatalogRepo) GetInventory(_ context.Context, sku, restaurantRef string) (*domain.InventoryItem, error) {
	item, ok := r.inventory[domain.InventoryKey(sku, restaurantRef)]
	if !ok {
		return nil, domain.ErrInventoryNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubCatalogRepo) ReplaceInventory(_ context.Context, item *domain.InventoryItem) error {
	key := domain.InventoryKey(item.SKU, item.RestaurantRef)
	if _, ok := r.inventory[key]; !ok {
		return domain.ErrInventoryNotFound
	}
	clone := *item
	r.inventory[key] = &clone
	return nil
}

func (r *stubCatalogRepo) TouchInventoryLastOrder(_ context.Context, sku, restaurantRef string, ts int64) error {
	item, ok := r.inventory[domain.InventoryKey(sku, restaurantRef)]
	if !ok {
		return domain.ErrInventoryNotFound
	}
	item.LastOrder = ts
	return nil
}

func (r *stubCatalogRepo) DeleteInventory(_ context.Context, sku, restaurantRef string) error {
	key := domain.InventoryKey(sku, restaurantRef)
	if _, ok := r.inventory[key]; !ok {
		return domain.ErrInventoryNotFound
	}
	delete(r.inventory, key)
	return nil
}

func (r *stubCatalogRepo) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	key := domain.MenuItemKey(item.SKU, item.RestaurantRef)
	if _, ok := r.menu[key]; ok {
		return domain.ErrMenuItemExists
	}
	clone := *item
	r.menu[key] = &clone
	return nil
}

func (r *stubCatalogRepo) GetMenuItem(_ context.Context, sku, restaurantRef string) (*domain.MenuItem, error) {
	item, ok := r.menu[domain.MenuItemKey(sku, restaurantRef)]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubCatalogRepo) SetMenuItemActive(_ context.Context, sku, restaurantRef string, active bool) error {
	item, ok := r.menu[domain.MenuItemKey(sku, restaurantRef)]
	if !ok {
		return domain.ErrMenuItemNotFound
	}
	item.Active = active
	return nil
}

func (r *stubCatalogRepo) DeleteMenuItem(_ context.Context, sku, restaurantRef string) error {
	key := domain.MenuItemKey(sku, restaurantRef)
	if _, ok := r.menu[key]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(r.menu, key)
	return nil
}

func (r *stubCatalogRepo) ListActiveMenu(_ context.Context, restaurantRef string) ([]*domain.MenuItem, error) {
	var items []*domain.MenuItem
	for _, item := range r.menu {
		if item.RestaurantRef == restaurantRef && item.Active {
			clone := *item
			items = append(items, &clone)
		}
	}
	return items, nil
}

type stubCustomerRepo struct {
	profiles    map[string]*domain.CustomerProfile
	credentials map[string]*domain.MembershipCredential
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		profiles:    make(map[string]*domain.CustomerProfile),
		credentials: make(map[string]*domain.MembershipCredential),
	}
}

func (r *stubCustomerRepo) CreateProfile(_ context.Context, p *domain.CustomerProfile) error {
	key := domain.CustomerKey(p.OwnerKey, p.RestaurantRef)
	if _, ok := r.profiles[key]; ok {
		return domain.ErrCustomerExists
	}
	clone := *p
	r.profiles[key] = &clone
	return nil
}

func (r *stubCustomerRepo) GetProfile(_ context.Context, ownerKey, restaurantRef string) (*domain.CustomerProfile, error) {
	p, ok := r.profiles[domain.CustomerKey(ownerKey, restaurantRef)]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubCustomerRepo) DeleteProfile(_ context.Context, ownerKey, restaurantRef string) error {
	key := domain.CustomerKey(ownerKey, restaurantRef)
	if _, ok := r.profiles[key]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.profiles, key)
	return nil
}

func (r *stubCustomerRepo) CreateCredential(_ context.Context, c *domain.MembershipCredential) error {
	if _, ok := r.credentials[c.ID]; ok {
		return domain.ErrCustomerExists
	}
	clone := *c
	r.credentials[c.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) GetCredential(_ context.Context, credentialRef string) (*domain.MembershipCredential, error) {
	c, ok := r.credentials[credentialRef]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) DeleteCredential(_ context.Context, credentialRef string) error {
	if _, ok := r.credentials[credentialRef]; !ok {
		return domain.ErrCredentialNotFound
	}
	delete(r.credentials, credentialRef)
	return nil
}

func (r *stubCustomerRepo) AddPoints(_ context.Context, credentialRef string, delta uint64) (uint64, error) {
	c, ok := r.credentials[credentialRef]
	if !ok {
		return 0, domain.ErrCredentialNotFound
	}
	c.RewardPoints += delta
	return c.RewardPoints, nil
}

func (r *stubCustomerRepo) SpendPoints(_ context.Context, credentialRef string, cost uint64) (uint64, error) {
	c, ok := r.credentials[credentialRef]
	if !ok {
		return 0, domain.ErrCredentialNotFound
	}
	if c.RewardPoints < cost {
		return 0, domain.ErrInsufficientPoints
	}
	c.RewardPoints -= cost
	return c.RewardPoints, nil
}

type stubOrderRepo struct {
	byKey map[string]*domain.CustomerOrder
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byKey: make(map[string]*domain.CustomerOrder)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.CustomerOrder) error {
	key := domain.OrderKey(o.OrderID, o.RestaurantRef)
	if _, ok := r.byKey[key]; ok {
		return domain.ErrOrderExists
	}
	clone := *o
	r.byKey[key] = &clone
	return nil
}

func (r *stubOrderRepo) Get(_ context.Context, orderRef, restaurantRef string) (*domain.CustomerOrder, error) {
	o, ok := r.byKey[domain.OrderKey(orderRef, restaurantRef)]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, orderRef, restaurantRef string, from, to domain.OrderStatus, updatedAt int64) error {
	o, ok := r.byKey[domain.OrderKey(orderRef, restaurantRef)]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = updatedAt
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, orderRef, restaurantRef string) error {
	key := domain.OrderKey(orderRef, restaurantRef)
	if _, ok := r.byKey[key]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.byKey, key)
	return nil
}

type stubRewardRepo struct {
	byKey map[string]*domain.RewardItem
}

func newStubRewardRepo() *stubRewardRepo {
	return &stubRewardRepo{byKey: make(map[string]*domain.RewardItem)}
}

func (r *stubRewardRepo) Create(_ context.Context, reward *domain.RewardItem) error {
	key := domain.RewardKey(reward.RewardRef, reward.RestaurantRef)
	if _, ok := r.byKey[key]; ok {
		return domain.ErrRewardExists
	}
	clone := *reward
	r.byKey[key] = &clone
	return nil
}

func (r *stubRewardRepo) Get(_ context.Context, rewardRef, restaurantRef string) (*domain.RewardItem, error) {
	reward, ok := r.byKey[domain.RewardKey(rewardRef, restaurantRef)]
	if !ok {
		return nil, domain.ErrRewardNotFound
	}
	clone := *reward
	return &clone, nil
}

func (r *stubRewardRepo) Delete(_ context.Context, rewardRef, restaurantRef string) error {
	key := domain.RewardKey(rewardRef, restaurantRef)
	if _, ok := r.byKey[key]; !ok {
		return domain.ErrRewardNotFound
	}
	delete(r.byKey, key)
	return nil
}

// ---------------------------------------------------------------------------
// Stub token ledger, grant store, publisher
// ---------------------------------------------------------------------------

type stubMint struct {
	decimals int
	metadata map[string]string
}

type stubTokenLedger struct {
	mints    map[string]*stubMint
	balances map[string]uint64 // mintKey + "/" + holderKey
	mintErr  error             // if set, MintTo returns this error
}

func newStubTokenLedger() *stubTokenLedger {
	return &stubTokenLedger{
		mints:    make(map[string]*stubMint),
		balances: make(map[string]uint64),
	}
}

func holdingKey(mintKey, holderKey string) string { return mintKey + "/" + holderKey }

func (l *stubTokenLedger) CreateMint(_ context.Context, mintKey string, decimals int, metadata map[string]string) error {
	if _, ok := l.mints[mintKey]; ok {
		return domain.ErrMintExists
	}
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	l.mints[mintKey] = &stubMint{decimals: decimals, metadata: md}
	return nil
}

func (l *stubTokenLedger) MintTo(_ context.Context, mintKey, holderKey string, amount uint64) error {
	if l.mintErr != nil {
		return l.mintErr
	}
	if _, ok := l.mints[mintKey]; !ok {
		return domain.ErrMintNotFound
	}
	l.balances[holdingKey(mintKey, holderKey)] += amount
	return nil
}

func (l *stubTokenLedger) Balance(_ context.Context, mintKey, holderKey string) (uint64, error) {
	return l.balances[holdingKey(mintKey, holderKey)], nil
}

func (l *stubTokenLedger) Transfer(_ context.Context, mintKey, fromKey, toKey string, units uint64) error {
	from := holdingKey(mintKey, fromKey)
	if l.balances[from] < units {
		return domain.ErrInsufficientFunds
	}
	l.balances[from] -= units
	l.balances[holdingKey(mintKey, toKey)] += units
	return nil
}

func (l *stubTokenLedger) UpdateMetadataField(_ context.Context, mintKey, field, value string) error {
	mint, ok := l.mints[mintKey]
	if !ok {
		return domain.ErrMintNotFound
	}
	mint.metadata[field] = value
	return nil
}

// setBalance seeds a holding directly, bypassing mint bookkeeping.
func (l *stubTokenLedger) setBalance(mintKey, holderKey string, balance uint64) {
	l.balances[holdingKey(mintKey, holderKey)] = balance
}

type stubGrantStore struct {
	mu       sync.Mutex
	consumed map[string]bool
}

func newStubGrantStore() *stubGrantStore {
	return &stubGrantStore{consumed: make(map[string]bool)}
}

func (g *stubGrantStore) Consume(_ context.Context, grantID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.consumed[grantID] {
		return false, nil
	}
	g.consumed[grantID] = true
	return true, nil
}

func (g *stubGrantStore) Release(_ context.Context, grantID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.consumed, grantID)
	return nil
}

type stubPublisher struct {
	events []ports.OrderEvent
}

func (p *stubPublisher) PublishOrderEvent(_ context.Context, event ports.OrderEvent) error {
	p.events = append(p.events, event)
	return nil
}

// ---------------------------------------------------------------------------
// Gates
// ---------------------------------------------------------------------------

// openGate always passes; lockedGate always rejects.
type openGate struct{}

func (openGate) RequireUnlocked(context.Context) error { return nil }

type lockedGate struct{}

func (lockedGate) RequireUnlocked(context.Context) error { return domain.ErrProtocolLocked }
