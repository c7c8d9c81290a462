package mongorepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	account.CreatedAt = now()
	account.UpdatedAt = account.CreatedAt
	doc, err := newAccountDoc(account)
	if err != nil {
		return nil, convertErr(err, "creating account")
	}
	if err = insertUnique(ctx, r.coll, "accountNumber", account.AccountNumber, doc); err != nil {
		return nil, convertErr(err, "creating account `%s`", account.AccountNumber)
	}
	created, err := doc.toDomain()
	return created, convertErr(err, "creating account")
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}, "find account by id `%s`", id)
}

func (r *AccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "userId", Value: idValue(userID)}}, "find account by user `%s`", userID)
}

func (r *AccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "accountNumber", Value: accountNumber}},
		"find account by number `%s`", accountNumber)
}

// ApplyDelta прибавляет delta через $inc. Для списания фильтр требует balance >= |delta|, поэтому
// конкурентные списания не уводят баланс в минус.
func (r *AccountRepository) ApplyDelta(
	ctx context.Context,
	id uuid.UUID,
	delta decimal.Decimal,
) (*domain.Account, error) {
	inc, err := toDecimal128(delta)
	if err != nil {
		return nil, convertErr(err, "apply delta to account `%s`", id)
	}

	filter := bson.D{{Key: "_id", Value: idValue(id)}}
	if delta.IsNegative() {
		required, reqErr := toDecimal128(delta.Neg())
		if reqErr != nil {
			return nil, convertErr(reqErr, "apply delta to account `%s`", id)
		}
		filter = append(filter, bson.E{Key: "balance", Value: bson.D{{Key: "$gte", Value: required}}})
	}

	var doc accountDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "balance", Value: inc}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		count, countErr := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: idValue(id)}})
		if countErr != nil {
			return nil, convertErr(countErr, "apply delta to account `%s`", id)
		}
		if count > 0 {
			return nil, domain.ErrInsufficientBalance
		}
	}
	if err != nil {
		return nil, convertErr(err, "apply delta to account `%s`", id)
	}

	acc, err := doc.toDomain()
	return acc, convertErr(err, "apply delta to account `%s`", id)
}

func (r *AccountRepository) findOne(
	ctx context.Context,
	filter bson.D,
	format string,
	args ...any,
) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, convertErr(err, format, args...)
	}
	acc, err := doc.toDomain()
	return acc, convertErr(err, format, args...)
}
