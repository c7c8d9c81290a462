// Package mongorepo репозитории поверх mongodb.
package mongorepo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	// timePrecision точность хранения времени в mongodb.
	timePrecision = time.Millisecond
)

// Connect подключается к mongodb, проверяет соединение и создает индексы в базе dbName.
func Connect(ctx context.Context, uri, dbName string, l *logrus.Logger) (*mongo.Client, *mongo.Database, error) {
	log := l.WithFields(logrus.Fields{"component": "mongo"})

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(dbName)
	if err = EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	log.WithField("db", dbName).Info("mongo connected")
	return client, db, nil
}

// EnsureIndexes создает индексы коллекций. Уникальные индексы обеспечивают уникальность email, UPI id,
// номеров счетов и карт, референсов транзакций.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "upiId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		accountsCollection: {
			{Keys: bson.D{{Key: "accountNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		transactionsCollection: {
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "senderAccountId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "receiverAccountId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		loansCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		},
		cardsCollection: {
			{Keys: bson.D{{Key: "cardNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "cardType", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiryDate", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes for %s", collection)
		}
	}
	return nil
}

// now время для createdAt/updatedAt.
func now() time.Time {
	return time.Now().UTC().Truncate(timePrecision)
}
