package mongorepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoanRepository struct {
	coll *mongo.Collection
}

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{coll: db.Collection(loansCollection)}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) (*domain.Loan, error) {
	loan.CreatedAt = now()
	loan.UpdatedAt = loan.CreatedAt
	doc, err := newLoanDoc(loan)
	if err != nil {
		return nil, convertErr(err, "creating loan")
	}
	if _, err = r.coll.InsertOne(ctx, doc); err != nil {
		return nil, convertErr(err, "creating loan")
	}
	created, err := doc.toDomain()
	return created, convertErr(err, "creating loan")
}

func (r *LoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	var doc loanDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: idValue(id)}}).Decode(&doc); err != nil {
		return nil, convertErr(err, "find loan `%s`", id)
	}
	loan, err := doc.toDomain()
	return loan, convertErr(err, "find loan `%s`", id)
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.D{{Key: "userId", Value: idValue(userID)}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, convertErr(err, "list loans of `%s`", userID)
	}
	var docs []loanDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, convertErr(err, "list loans of `%s`", userID)
	}

	loans := make([]domain.Loan, 0, len(docs))
	for _, doc := range docs {
		loan, convErr := doc.toDomain()
		if convErr != nil {
			return nil, convertErr(convErr, "list loans of `%s`", userID)
		}
		loans = append(loans, *loan)
	}
	return loans, nil
}

func (r *LoanRepository) CountByUserAndStatuses(
	ctx context.Context,
	userID uuid.UUID,
	statuses []domain.LoanStatus,
) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "userId", Value: idValue(userID)},
		{Key: "status", Value: bson.D{{Key: "$in", Value: enumStrings(statuses)}}},
	})
	if err != nil {
		return 0, convertErr(err, "count loans of `%s`", userID)
	}
	return count, nil
}

func (r *LoanRepository) UpdateLoan(
	ctx context.Context,
	loan domain.Loan,
	expected domain.LoanStatus,
) (*domain.Loan, error) {
	loan.UpdatedAt = now()
	doc, err := newLoanDoc(loan)
	if err != nil {
		return nil, convertErr(err, "update loan `%s`", loan.ID)
	}

	set := bson.D{
		{Key: "amount", Value: doc.Amount},
		{Key: "interestRate", Value: doc.InterestRate},
		{Key: "term", Value: doc.Term},
		{Key: "monthlyPayment", Value: doc.MonthlyPayment},
		{Key: "totalAmount", Value: doc.TotalAmount},
		{Key: "remainingBalance", Value: doc.RemainingBalance},
		{Key: "purpose", Value: doc.Purpose},
		{Key: "status", Value: doc.Status},
		{Key: "updatedAt", Value: doc.UpdatedAt},
	}
	if doc.ApprovedAt != nil {
		set = append(set, bson.E{Key: "approvedAt", Value: *doc.ApprovedAt})
	}

	var updated loanDoc
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: doc.ID}, {Key: "status", Value: string(expected)}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, convertErr(err, "update loan `%s`", loan.ID)
	}
	res, err := updated.toDomain()
	return res, convertErr(err, "update loan `%s`", loan.ID)
}
