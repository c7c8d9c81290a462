package mongorepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CardRepository struct {
	coll *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{coll: db.Collection(cardsCollection)}
}

func (r *CardRepository) CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error) {
	card.CreatedAt = now()
	card.UpdatedAt = card.CreatedAt
	card.ExpiryDate = card.ExpiryDate.UTC().Truncate(timePrecision)
	doc, err := newCardDoc(card)
	if err != nil {
		return nil, convertErr(err, "creating card")
	}
	if err = insertUnique(ctx, r.coll, "cardNumber", card.CardNumber, doc); err != nil {
		return nil, convertErr(err, "creating card")
	}
	created, err := doc.toDomain()
	return created, convertErr(err, "creating card")
}

func (r *CardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var doc cardDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}).Decode(&doc); err != nil {
		return nil, convertErr(err, "find card `%s`", id)
	}
	card, err := doc.toDomain()
	return card, convertErr(err, "find card `%s`", id)
}

func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	return r.find(
		ctx,
		bson.D{{Key: "userId", Value: idValue(userID)}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		"list cards of `%s`", userID,
	)
}

func (r *CardRepository) CountByUserTypeAndStatuses(
	ctx context.Context,
	userID uuid.UUID,
	cardType domain.CardType,
	statuses []domain.CardStatus,
) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "userId", Value: idValue(userID)},
		{Key: "cardType", Value: string(cardType)},
		{Key: "status", Value: bson.D{{Key: "$in", Value: enumStrings(statuses)}}},
	})
	if err != nil {
		return 0, convertErr(err, "count cards of `%s`", userID)
	}
	return count, nil
}

func (r *CardRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from []domain.CardStatus,
	to domain.CardStatus,
) (*domain.Card, error) {
	return r.updateOne(ctx,
		bson.D{
			{Key: "_id", Value: idValue(id)},
			{Key: "status", Value: bson.D{{Key: "$in", Value: enumStrings(from)}}},
		},
		bson.D{{Key: "status", Value: string(to)}},
		"update card `%s` status to `%s`", id, to,
	)
}

func (r *CardRepository) SetPINHash(ctx context.Context, id uuid.UUID, pinHash string) (*domain.Card, error) {
	return r.updateOne(ctx,
		bson.D{
			{Key: "_id", Value: idValue(id)},
			{Key: "status", Value: string(domain.CardStatusActive)},
		},
		bson.D{{Key: "pinHash", Value: pinHash}},
		"set pin of card `%s`", id,
	)
}

// updateOne применяет $set к карте, подходящей под filter. Не нашлась - domain.ErrRecordNotFound.
func (r *CardRepository) updateOne(
	ctx context.Context,
	filter bson.D,
	set bson.D,
	format string,
	args ...any,
) (*domain.Card, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: now()})

	var doc cardDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, convertErr(err, format, args...)
	}
	card, err := doc.toDomain()
	return card, convertErr(err, format, args...)
}

func (r *CardRepository) FindExpiring(ctx context.Context, at time.Time, limit uint) ([]domain.Card, error) {
	return r.find(
		ctx,
		bson.D{
			{Key: "status", Value: bson.D{{Key: "$in", Value: enumStrings(domain.OpenCardStatuses)}}},
			{Key: "expiryDate", Value: bson.D{{Key: "$lt", Value: at.UTC()}}},
		},
		options.Find().SetSort(bson.D{{Key: "expiryDate", Value: 1}}).SetLimit(int64(limit)),
		"find expiring cards",
	)
}

func (r *CardRepository) find(
	ctx context.Context,
	filter bson.D,
	opts *options.FindOptions,
	format string,
	args ...any,
) ([]domain.Card, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, convertErr(err, format, args...)
	}
	var docs []cardDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, convertErr(err, format, args...)
	}

	cards := make([]domain.Card, 0, len(docs))
	for _, doc := range docs {
		card, convErr := doc.toDomain()
		if convErr != nil {
			return nil, convertErr(convErr, format, args...)
		}
		cards = append(cards, *card)
	}
	return cards, nil
}
