package mongorepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(transactionsCollection)}
}

func (r *TransactionRepository) CreateTransaction(
	ctx context.Context,
	tx domain.Transaction,
) (*domain.Transaction, error) {
	tx.CreatedAt = tx.CreatedAt.UTC().Truncate(timePrecision)
	if tx.CompletedAt != nil {
		completed := tx.CompletedAt.UTC().Truncate(timePrecision)
		tx.CompletedAt = &completed
	}
	doc, err := newTransactionDoc(tx)
	if err != nil {
		return nil, convertErr(err, "creating transaction")
	}
	if err = insertUnique(ctx, r.coll, "reference", tx.Reference, doc); err != nil {
		return nil, convertErr(err, "creating transaction `%s`", tx.Reference)
	}
	created, err := doc.toDomain()
	return created, convertErr(err, "creating transaction")
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var doc transactionDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}).Decode(&doc); err != nil {
		return nil, convertErr(err, "find transaction `%s`", id)
	}
	tx, err := doc.toDomain()
	return tx, convertErr(err, "find transaction `%s`", id)
}

func (r *TransactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	page repoargs.Page,
) ([]domain.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(page.Limit)).
		SetSkip(int64(page.Offset))

	cur, err := r.coll.Find(ctx, involvingAccount(accountID), opts)
	if err != nil {
		return nil, convertErr(err, "list transactions of `%s`", accountID)
	}
	var docs []transactionDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, convertErr(err, "list transactions of `%s`", accountID)
	}

	txs := make([]domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, convErr := doc.toDomain()
		if convErr != nil {
			return nil, convertErr(convErr, "list transactions of `%s`", accountID)
		}
		txs = append(txs, *tx)
	}
	return txs, nil
}

func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TransactionStatus,
) (*domain.Transaction, error) {
	var doc transactionDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: idValue(id)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: string(status)}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, convertErr(err, "update transaction status `%s`", id)
	}
	tx, err := doc.toDomain()
	return tx, convertErr(err, "update transaction status `%s`", id)
}

type summaryDoc struct {
	Type          string               `bson:"_id"`
	IncomingCount int64                `bson:"incomingCount"`
	IncomingTotal primitive.Decimal128 `bson:"incomingTotal"`
	OutgoingCount int64                `bson:"outgoingCount"`
	OutgoingTotal primitive.Decimal128 `bson:"outgoingTotal"`
}

// SummarizeByAccount агрегирует завершенные транзакции счета по типам. Входящие: пополнения счета и
// переводы, где счет получатель. Исходящие: все прочие, где счет отправитель.
func (r *TransactionRepository) SummarizeByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]domain.TransactionSummary, error) {
	cur, err := r.coll.Aggregate(ctx, summaryPipeline(accountID))
	if err != nil {
		return nil, convertErr(err, "summarize transactions of `%s`", accountID)
	}
	var docs []summaryDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, convertErr(err, "summarize transactions of `%s`", accountID)
	}

	res := make([]domain.TransactionSummary, 0, len(docs))
	for _, doc := range docs {
		var c converter
		s := domain.TransactionSummary{
			Type:          domain.TransactionType(doc.Type),
			IncomingCount: doc.IncomingCount,
			IncomingTotal: c.dec(doc.IncomingTotal),
			OutgoingCount: doc.OutgoingCount,
			OutgoingTotal: c.dec(doc.OutgoingTotal),
		}
		if c.err != nil {
			return nil, convertErr(c.err, "summarize transactions of `%s`", accountID)
		}
		res = append(res, s)
	}
	return res, nil
}

func involvingAccount(accountID uuid.UUID) bson.D {
	id := idValue(accountID)
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "senderAccountId", Value: id}},
		bson.D{{Key: "receiverAccountId", Value: id}},
	}}}
}

func summaryPipeline(accountID uuid.UUID) mongo.Pipeline {
	id := idValue(accountID)

	sumIf := func(cond string, value any) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{cond, value, decimalZero}}}}}
	}
	countIf := func(cond string) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{cond, 1, 0}}}}}
	}

	match := append(involvingAccount(accountID), bson.E{Key: "status", Value: string(domain.TransactionCompleted)})

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: bson.D{
			{Key: "type", Value: 1},
			{Key: "amount", Value: 1},
			{Key: "incoming", Value: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$receiverAccountId", id}}},
				bson.D{{Key: "$eq", Value: bson.A{"$type", string(domain.TransactionDeposit)}}},
			}}}},
			{Key: "outgoing", Value: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$ne", Value: bson.A{"$receiverAccountId", id}}},
				bson.D{{Key: "$ne", Value: bson.A{"$type", string(domain.TransactionDeposit)}}},
			}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "incomingCount", Value: countIf("$incoming")},
			{Key: "incomingTotal", Value: sumIf("$incoming", "$amount")},
			{Key: "outgoingCount", Value: countIf("$outgoing")},
			{Key: "outgoingTotal", Value: sumIf("$outgoing", "$amount")},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
