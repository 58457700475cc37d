package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const (
	collectionInventory = "inventory"
	collectionMenu      = "menu"
)

type CatalogRepository struct {
	inventory *mongo.Collection
	menu      *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		inventory: db.Collection(collectionInventory),
		menu:      db.Collection(collectionMenu),
	}
}

type inventoryDoc struct {
	ID                   string `bson:"_id"`
	domain.InventoryItem `bson:",inline"`
}

type menuDoc struct {
	ID              string `bson:"_id"`
	domain.MenuItem `bson:",inline"`
}

func (r *CatalogRepository) CreateInventory(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := inventoryDoc{ID: domain.InventoryKey(item.SKU, item.RestaurantRef), InventoryItem: *item}
	_, err := r.inventory.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrInventoryExists
	}
	return err
}

func (r *CatalogRepository) GetInventory(ctx context.Context, sku, restaurantRef string) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc inventoryDoc
	err := r.inventory.FindOne(ctx, bson.M{"_id": domain.InventoryKey(sku, restaurantRef)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, err
	}
	return &doc.InventoryItem, nil
}

// ReplaceInventory overwrites every mutable field of the stock record. The
// caller is responsible for carrying last_order over from the stored record.
func (r *CatalogRepository) ReplaceInventory(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := inventoryDoc{ID: domain.InventoryKey(item.SKU, item.RestaurantRef), InventoryItem: *item}
	res, err := r.inventory.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *CatalogRepository) TouchInventoryLastOrder(ctx context.Context, sku, restaurantRef string, ts int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.inventory.UpdateOne(ctx,
		bson.M{"_id": domain.InventoryKey(sku, restaurantRef)},
		bson.M{"$set": bson.M{"last_order": ts}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteInventory(ctx context.Context, sku, restaurantRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.inventory.DeleteOne(ctx, bson.M{"_id": domain.InventoryKey(sku, restaurantRef)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := menuDoc{ID: domain.MenuItemKey(item.SKU, item.RestaurantRef), MenuItem: *item}
	_, err := r.menu.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrMenuItemExists
	}
	return err
}

func (r *CatalogRepository) GetMenuItem(ctx context.Context, sku, restaurantRef string) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc menuDoc
	err := r.menu.FindOne(ctx, bson.M{"_id": domain.MenuItemKey(sku, restaurantRef)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, err
	}
	return &doc.MenuItem, nil
}

func (r *CatalogRepository) SetMenuItemActive(ctx context.Context, sku, restaurantRef string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.menu.UpdateOne(ctx,
		bson.M{"_id": domain.MenuItemKey(sku, restaurantRef)},
		bson.M{"$set": bson.M{"active": active}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteMenuItem(ctx context.Context, sku, restaurantRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.menu.DeleteOne(ctx, bson.M{"_id": domain.MenuItemKey(sku, restaurantRef)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *CatalogRepository) ListActiveMenu(ctx context.Context, restaurantRef string) ([]*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.menu.Find(ctx, bson.M{"restaurant_ref": restaurantRef, "active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.MenuItem
	for cursor.Next(ctx) {
		var doc menuDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		item := doc.MenuItem
		items = append(items, &item)
	}
	return items, cursor.Err()
}
