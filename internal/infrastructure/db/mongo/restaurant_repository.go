package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const collectionRestaurants = "restaurants"

type RestaurantRepository struct {
	col *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *RestaurantRepository {
	return &RestaurantRepository{col: db.Collection(collectionRestaurants)}
}

type restaurantDoc struct {
	ID                string `bson:"_id"`
	domain.Restaurant `bson:",inline"`
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := restaurantDoc{ID: domain.RestaurantKey(restaurant.Reference), Restaurant: *restaurant}
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRestaurantExists
	}
	return err
}

func (r *RestaurantRepository) Get(ctx context.Context, reference string) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc restaurantDoc
	err := r.col.FindOne(ctx, bson.M{"_id": domain.RestaurantKey(reference)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}
	return &doc.Restaurant, nil
}

func (r *RestaurantRepository) Delete(ctx context.Context, reference string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": domain.RestaurantKey(reference)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (r *RestaurantRepository) IncrementCustomerCount(ctx context.Context, reference string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": domain.RestaurantKey(reference)},
		bson.M{"$inc": bson.M{"customer_count": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}
