package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const collectionRewards = "rewards"

type RewardRepository struct {
	col *mongo.Collection
}

func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{col: db.Collection(collectionRewards)}
}

type rewardDoc struct {
	ID                string `bson:"_id"`
	domain.RewardItem `bson:",inline"`
}

func (r *RewardRepository) Create(ctx context.Context, reward *domain.RewardItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := rewardDoc{ID: domain.RewardKey(reward.RewardRef, reward.RestaurantRef), RewardItem: *reward}
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRewardExists
	}
	return err
}

func (r *RewardRepository) Get(ctx context.Context, rewardRef, restaurantRef string) (*domain.RewardItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc rewardDoc
	err := r.col.FindOne(ctx, bson.M{"_id": domain.RewardKey(rewardRef, restaurantRef)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRewardNotFound
		}
		return nil, err
	}
	return &doc.RewardItem, nil
}

func (r *RewardRepository) Delete(ctx context.Context, rewardRef, restaurantRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": domain.RewardKey(rewardRef, restaurantRef)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrRewardNotFound
	}
	return nil
}
