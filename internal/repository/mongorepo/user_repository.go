package mongorepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	doc := newUserDoc(user)

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, convertErr(err, "creating user")
	}
	created, err := doc.toDomain()
	return created, convertErr(err, "creating user")
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}, "find user by id `%s`", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "find user by email")
}

func (r *UserRepository) FindByUPI(ctx context.Context, upiID string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "upiId", Value: upiID}}, "find user by upi `%s`", upiID)
}

func (r *UserRepository) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	args repoargs.UpdateProfile,
) (*domain.User, error) {
	set := bson.D{{Key: "updatedAt", Value: now()}}
	if args.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *args.Name})
	}
	if args.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *args.Phone})
	}
	if args.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *args.Address})
	}
	return r.update(ctx, id, bson.D{{Key: "$set", Value: set}}, "update profile `%s`", id)
}

// SetUPI привязывает UPI id или, при nil, удаляет поле: разреженный уникальный индекс не учитывает
// документы без upiId.
func (r *UserRepository) SetUPI(ctx context.Context, id uuid.UUID, upiID *string) (*domain.User, error) {
	set := bson.D{{Key: "updatedAt", Value: now()}}
	var update bson.D
	if upiID == nil {
		update = bson.D{
			{Key: "$set", Value: set},
			{Key: "$unset", Value: bson.D{{Key: "upiId", Value: ""}}},
		}
	} else {
		update = bson.D{{Key: "$set", Value: append(set, bson.E{Key: "upiId", Value: *upiID})}}
	}
	return r.update(ctx, id, update, "set upi `%s`", id)
}

func (r *UserRepository) update(
	ctx context.Context,
	id uuid.UUID,
	update bson.D,
	format string,
	args ...any,
) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: idValue(id)}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, convertErr(err, format, args...)
	}
	user, err := doc.toDomain()
	return user, convertErr(err, format, args...)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, format string, args ...any) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, convertErr(err, format, args...)
	}
	user, err := doc.toDomain()
	return user, convertErr(err, format, args...)
}
