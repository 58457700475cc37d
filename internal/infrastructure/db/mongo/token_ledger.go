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
	collectionMints    = "token_mints"
	collectionHoldings = "token_holdings"
)

// TokenLedger is the Mongo-backed token subsystem. Mints live in one
// collection keyed by mint key; holdings in another keyed by
// (mint_key, holder_key). Debits are guarded conditional updates so a
// holding balance can never go negative.
type TokenLedger struct {
	mints    *mongo.Collection
	holdings *mongo.Collection
}

func NewTokenLedger(db *mongo.Database) *TokenLedger {
	return &TokenLedger{
		mints:    db.Collection(collectionMints),
		holdings: db.Collection(collectionHoldings),
	}
}

type mintDoc struct {
	ID       string            `bson:"_id"`
	Decimals int               `bson:"decimals"`
	Supply   int64             `bson:"supply"`
	Metadata map[string]string `bson:"metadata"`
}

type holdingDoc struct {
	ID        string `bson:"_id"`
	MintKey   string `bson:"mint_key"`
	HolderKey string `bson:"holder_key"`
	Balance   int64  `bson:"balance"`
}

func holdingID(mintKey, holderKey string) string {
	return domain.DeriveKey("holding", mintKey, holderKey)
}

func (l *TokenLedger) CreateMint(ctx context.Context, mintKey string, decimals int, metadata map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if metadata == nil {
		metadata = map[string]string{}
	}
	_, err := l.mints.InsertOne(ctx, mintDoc{ID: mintKey, Decimals: decimals, Metadata: metadata})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrMintExists
	}
	return err
}

func (l *TokenLedger) MintTo(ctx context.Context, mintKey, holderKey string, amount uint64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := l.mints.UpdateOne(ctx,
		bson.M{"_id": mintKey},
		bson.M{"$inc": bson.M{"supply": int64(amount)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMintNotFound
	}

	return l.credit(ctx, mintKey, holderKey, int64(amount))
}

func (l *TokenLedger) Balance(ctx context.Context, mintKey, holderKey string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc holdingDoc
	err := l.holdings.FindOne(ctx, bson.M{"_id": holdingID(mintKey, holderKey)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(doc.Balance), nil
}

// Transfer debits the source with a balance-guarded update, then credits the
// destination. A failed debit leaves both holdings untouched.
func (l *TokenLedger) Transfer(ctx context.Context, mintKey, fromKey, toKey string, units uint64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := l.holdings.UpdateOne(ctx,
		bson.M{"_id": holdingID(mintKey, fromKey), "balance": bson.M{"$gte": int64(units)}},
		bson.M{"$inc": bson.M{"balance": -int64(units)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInsufficientFunds
	}

	if err := l.credit(ctx, mintKey, toKey, int64(units)); err != nil {
		// Put the debited units back so the failed transfer is not a burn.
		_, _ = l.holdings.UpdateOne(ctx,
			bson.M{"_id": holdingID(mintKey, fromKey)},
			bson.M{"$inc": bson.M{"balance": int64(units)}},
		)
		return err
	}
	return nil
}

func (l *TokenLedger) UpdateMetadataField(ctx context.Context, mintKey, field, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := l.mints.UpdateOne(ctx,
		bson.M{"_id": mintKey},
		bson.M{"$set": bson.M{"metadata." + field: value}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMintNotFound
	}
	return nil
}

func (l *TokenLedger) credit(ctx context.Context, mintKey, holderKey string, units int64) error {
	opts := options.Update().SetUpsert(true)
	_, err := l.holdings.UpdateOne(ctx,
		bson.M{"_id": holdingID(mintKey, holderKey)},
		bson.M{
			"$inc":         bson.M{"balance": units},
			"$setOnInsert": bson.M{"mint_key": mintKey, "holder_key": holderKey},
		},
		opts,
	)
	return err
}
