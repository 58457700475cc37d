package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const (
	collectionCustomers   = "customers"
	collectionCredentials = "credentials"
)

type CustomerRepository struct {
	profiles    *mongo.Collection
	credentials *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		profiles:    db.Collection(collectionCustomers),
		credentials: db.Collection(collectionCredentials),
	}
}

type profileDoc struct {
	ID                     string `bson:"_id"`
	domain.CustomerProfile `bson:",inline"`
}

func (r *CustomerRepository) CreateProfile(ctx context.Context, p *domain.CustomerProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := profileDoc{ID: p.ID, CustomerProfile: *p}
	_, err := r.profiles.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCustomerExists
	}
	return err
}

func (r *CustomerRepository) GetProfile(ctx context.Context, ownerKey, restaurantRef string) (*domain.CustomerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	err := r.profiles.FindOne(ctx, bson.M{"_id": domain.CustomerKey(ownerKey, restaurantRef)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &doc.CustomerProfile, nil
}

func (r *CustomerRepository) DeleteProfile(ctx context.Context, ownerKey, restaurantRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.profiles.DeleteOne(ctx, bson.M{"_id": domain.CustomerKey(ownerKey, restaurantRef)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) CreateCredential(ctx context.Context, c *domain.MembershipCredential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.credentials.InsertOne(ctx, bson.M{
		"_id":           c.ID,
		"mint_key":      c.MintKey,
		"reward_points": c.RewardPoints,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCustomerExists
	}
	return err
}

func (r *CustomerRepository) GetCredential(ctx context.Context, credentialRef string) (*domain.MembershipCredential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		ID           string `bson:"_id"`
		MintKey      string `bson:"mint_key"`
		RewardPoints uint64 `bson:"reward_points"`
	}
	err := r.credentials.FindOne(ctx, bson.M{"_id": credentialRef}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return &domain.MembershipCredential{ID: doc.ID, MintKey: doc.MintKey, RewardPoints: doc.RewardPoints}, nil
}

func (r *CustomerRepository) DeleteCredential(ctx context.Context, credentialRef string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.credentials.DeleteOne(ctx, bson.M{"_id": credentialRef})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

// AddPoints increments the balance unconditionally and returns the new value.
func (r *CustomerRepository) AddPoints(ctx context.Context, credentialRef string, delta uint64) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		RewardPoints uint64 `bson:"reward_points"`
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.credentials.FindOneAndUpdate(ctx,
		bson.M{"_id": credentialRef},
		bson.M{"$inc": bson.M{"reward_points": int64(delta)}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrCredentialNotFound
		}
		return 0, err
	}
	return doc.RewardPoints, nil
}

// SpendPoints decrements the balance only when it covers cost. The filter
// carries the balance guard so the check and the decrement are one atomic
// document update; a balance can never go negative through this path.
func (r *CustomerRepository) SpendPoints(ctx context.Context, credentialRef string, cost uint64) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		RewardPoints uint64 `bson:"reward_points"`
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.credentials.FindOneAndUpdate(ctx,
		bson.M{"_id": credentialRef, "reward_points": bson.M{"$gte": cost}},
		bson.M{"$inc": bson.M{"reward_points": -int64(cost)}},
		opts,
	).Decode(&doc)
	if err == nil {
		return doc.RewardPoints, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// No match: either the credential is missing or the balance fell short.
	if _, getErr := r.GetCredential(ctx, credentialRef); getErr != nil {
		return 0, getErr
	}
	return 0, domain.ErrInsufficientPoints
}
