package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

const collectionProtocol = "protocol"

// ProtocolRepository persists the singleton gate record at its derived key.
type ProtocolRepository struct {
	col *mongo.Collection
}

func NewProtocolRepository(db *mongo.Database) *ProtocolRepository {
	return &ProtocolRepository{col: db.Collection(collectionProtocol)}
}

type protocolDoc struct {
	ID     string `bson:"_id"`
	Locked bool   `bson:"locked"`
}

func (r *ProtocolRepository) Get(ctx context.Context) (*domain.Protocol, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc protocolDoc
	err := r.col.FindOne(ctx, bson.M{"_id": domain.ProtocolKey()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProtocolNotInitialized
		}
		return nil, err
	}
	return &domain.Protocol{Locked: doc.Locked}, nil
}

func (r *ProtocolRepository) Create(ctx context.Context, p *domain.Protocol) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, protocolDoc{ID: domain.ProtocolKey(), Locked: p.Locked})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrProtocolExists
	}
	return err
}

func (r *ProtocolRepository) SetLocked(ctx context.Context, locked bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": domain.ProtocolKey()},
		bson.M{"$set": bson.M{"locked": locked}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProtocolNotInitialized
	}
	return nil
}
