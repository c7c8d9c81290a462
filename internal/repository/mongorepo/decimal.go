package mongorepo

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decimalScale сколько знаков после запятой сохраняется в Decimal128 (34 значащие цифры).
const decimalScale = 16

var (
	errBadDocument = errors.New("malformed document")
	decimalZero, _ = primitive.ParseDecimal128("0")
)

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.Round(decimalScale).String())
	if err != nil {
		return primitive.Decimal128{}, errors.WithStack(err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, errors.Wrapf(errBadDocument, "decimal %q: %s", v.String(), err.Error())
	}
	return d, nil
}

// converter конвертирует поля документа по одному, запоминая первую ошибку.
type converter struct {
	err error
}

func (c *converter) dec128(d decimal.Decimal) primitive.Decimal128 {
	if c.err != nil {
		return primitive.Decimal128{}
	}
	var v primitive.Decimal128
	v, c.err = toDecimal128(d)
	return v
}

func (c *converter) dec(v primitive.Decimal128) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	var d decimal.Decimal
	d, c.err = fromDecimal128(v)
	return d
}

func (c *converter) id(s string) uuid.UUID {
	if c.err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		c.err = errors.Wrapf(errBadDocument, "uuid %q: %s", s, err.Error())
	}
	return id
}
