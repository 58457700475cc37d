package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const collectionCapabilities = "capabilities"

// CapabilityRepository stores all three capability record types in one
// collection. The derived _id guarantees at most one record per seed tuple;
// the kind field disambiguates on read.
type CapabilityRepository struct {
	col *mongo.Collection
}

func NewCapabilityRepository(db *mongo.Database) *CapabilityRepository {
	return &CapabilityRepository{col: db.Collection(collectionCapabilities)}
}

type capabilityDoc struct {
	ID            string `bson:"_id"`
	Kind          string `bson:"kind"`
	OwnerKey      string `bson:"owner_key"`
	RestaurantRef string `bson:"restaurant_ref,omitempty"`
	Username      string `bson:"username"`
	CreatedAt     int64  `bson:"created_at"`
}

func (r *CapabilityRepository) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	return r.insert(ctx, capabilityDoc{
		ID:        domain.AdminKey(a.OwnerKey),
		Kind:      string(domain.CapabilityProtocolAdmin),
		OwnerKey:  a.OwnerKey,
		Username:  a.Username,
		CreatedAt: a.CreatedAt.Unix(),
	})
}

func (r *CapabilityRepository) GetAdmin(ctx context.Context, ownerKey string) (*domain.Admin, error) {
	doc, err := r.find(ctx, domain.AdminKey(ownerKey))
	if err != nil {
		return nil, err
	}
	return &domain.Admin{
		OwnerKey:  doc.OwnerKey,
		Username:  doc.Username,
		CreatedAt: time.Unix(doc.CreatedAt, 0).UTC(),
	}, nil
}

func (r *CapabilityRepository) DeleteAdmin(ctx context.Context, ownerKey string) error {
	return r.delete(ctx, domain.AdminKey(ownerKey))
}

func (r *CapabilityRepository) CreateRestaurantAdmin(ctx context.Context, a *domain.RestaurantAdmin) error {
	return r.insert(ctx, capabilityDoc{
		ID:            domain.RestaurantAdminKey(a.OwnerKey, a.RestaurantRef),
		Kind:          string(domain.CapabilityRestaurantAdmin),
		OwnerKey:      a.OwnerKey,
		RestaurantRef: a.RestaurantRef,
		Username:      a.Username,
		CreatedAt:     a.CreatedAt.Unix(),
	})
}

func (r *CapabilityRepository) GetRestaurantAdmin(ctx context.Context, ownerKey, restaurantRef string) (*domain.RestaurantAdmin, error) {
	doc, err := r.find(ctx, domain.RestaurantAdminKey(ownerKey, restaurantRef))
	if err != nil {
		return nil, err
	}
	return &domain.RestaurantAdmin{
		OwnerKey:      doc.OwnerKey,
		RestaurantRef: doc.RestaurantRef,
		Username:      doc.Username,
		CreatedAt:     time.Unix(doc.CreatedAt, 0).UTC(),
	}, nil
}

func (r *CapabilityRepository) DeleteRestaurantAdmin(ctx context.Context, ownerKey, restaurantRef string) error {
	return r.delete(ctx, domain.RestaurantAdminKey(ownerKey, restaurantRef))
}

func (r *CapabilityRepository) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	return r.insert(ctx, capabilityDoc{
		ID:            domain.EmployeeKey(e.OwnerKey, e.RestaurantRef),
		Kind:          string(domain.CapabilityEmployee),
		OwnerKey:      e.OwnerKey,
		RestaurantRef: e.RestaurantRef,
		Username:      e.Username,
		CreatedAt:     e.CreatedAt.Unix(),
	})
}

func (r *CapabilityRepository) GetEmployee(ctx context.Context, ownerKey, restaurantRef string) (*domain.Employee, error) {
	doc, err := r.find(ctx, domain.EmployeeKey(ownerKey, restaurantRef))
	if err != nil {
		return nil, err
	}
	return &domain.Employee{
		OwnerKey:      doc.OwnerKey,
		RestaurantRef: doc.RestaurantRef,
		Username:      doc.Username,
		CreatedAt:     time.Unix(doc.CreatedAt, 0).UTC(),
	}, nil
}

func (r *CapabilityRepository) DeleteEmployee(ctx context.Context, ownerKey, restaurantRef string) error {
	return r.delete(ctx, domain.EmployeeKey(ownerKey, restaurantRef))
}

func (r *CapabilityRepository) insert(ctx context.Context, doc capabilityDoc) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCapabilityExists
	}
	return err
}

func (r *CapabilityRepository) find(ctx context.Context, id string) (*capabilityDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc capabilityDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCapabilityNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *CapabilityRepository) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCapabilityNotFound
	}
	return nil
}
