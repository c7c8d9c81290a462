package mongorepo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// errValueTaken сгенерированное уникальное значение уже занято другим документом.
var errValueTaken = errors.New("generated value taken")

// insertUnique вставляет doc, только если поле key со значением value еще не занято. Занятое значение - errValueTaken.
// В отличие от InsertOne конфликт не порождает ошибку записи, поэтому сессионная транзакция не прерывается
// и вызывающий может перегенерировать значение в ней же.
func insertUnique(ctx context.Context, coll *mongo.Collection, key string, value any, doc any) error {
	res, err := coll.UpdateOne(ctx,
		bson.D{{Key: key, Value: value}},
		bson.D{{Key: "$setOnInsert", Value: doc}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	if res.UpsertedCount == 0 {
		return errors.WithStack(errValueTaken)
	}
	return nil
}
