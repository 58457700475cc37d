package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type orderDoc struct {
	ID                   string `bson:"_id"`
	domain.CustomerOrder `bson:",inline"`
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.CustomerOrder) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := orderDoc{ID: domain.OrderKey(o.OrderID, o.RestaurantRef), CustomerOrder: *o}
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrOrderExists
	}
	return err
}

func (r *OrderRepository) Get(ctx context.Context, orderRef, restaurantRef string) (*domain.CustomerOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	err := r.col.FindOne(ctx, bson.M{"_id": domain.OrderKey(orderRef, restaurantRef)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &doc.CustomerOrder, nil
}

// UpdateStatus transitions the order only when its stored status still equals
// from, so two racing transitions cannot both win.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderRef, restaurantRef string, from, to domain.OrderStatus, updatedAt int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": domain.OrderKey(orderRef, restaurantRef), "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.Get(ctx, orderRef, restaurantRef); getErr != nil {
			return getErr
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderRef, restaurantRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": domain.OrderKey(orderRef, restaurantRef)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
