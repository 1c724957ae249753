package storage

import (
	"fmt"
	"math"

	"expensetracker/ledger/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names of a stored expense document.
const (
	fieldID          = "_id"
	fieldDescription = "description"
	fieldAmount      = "amount"
	fieldCategory    = "category"
	fieldDate        = "date"
)

// newExpenseDocument is the shape written on insert. The id is left to the driver.
// Amounts are stored as Decimal128 so they read back exactly.
type newExpenseDocument struct {
	Description string               `bson:"description"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Category    string               `bson:"category"`
	Date        string               `bson:"date"`
}

// expenseDocument is the shape read back. Amount stays raw so documents
// written by other tools with a missing or non-numeric amount still load.
type expenseDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Description string             `bson:"description"`
	Amount      bson.RawValue      `bson:"amount"`
	Category    string             `bson:"category"`
	Date        string             `bson:"date"`
}

func toNewDocument(e model.Expense) (newExpenseDocument, error) {
	amount, err := primitive.ParseDecimal128(e.Amount.Decimal.String())
	if err != nil {
		return newExpenseDocument{}, fmt.Errorf("amount %s does not fit Decimal128: %w", e.Amount.Decimal, err)
	}

	return newExpenseDocument{
		Description: e.Description,
		Amount:      amount,
		Category:    e.Category,
		Date:        e.Date,
	}, nil
}

func (d expenseDocument) toExpense() model.Expense {
	return model.Expense{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Amount:      amountFromRaw(d.Amount),
		Category:    d.Category,
		Date:        d.Date,
	}
}

// amountFromRaw accepts any numeric BSON type, or a string holding a number.
func amountFromRaw(v bson.RawValue) decimal.NullDecimal {
	switch v.Type {
	case bsontype.Double:
		if f, ok := v.DoubleOK(); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return decimal.NewNullDecimal(decimal.NewFromFloat(f))
		}
	case bsontype.Int32:
		if i, ok := v.Int32OK(); ok {
			return decimal.NewNullDecimal(decimal.NewFromInt32(i))
		}
	case bsontype.Int64:
		if i, ok := v.Int64OK(); ok {
			return decimal.NewNullDecimal(decimal.NewFromInt(i))
		}
	case bsontype.Decimal128:
		if d128, ok := v.Decimal128OK(); ok {
			if d, err := decimal.NewFromString(d128.String()); err == nil {
				return decimal.NewNullDecimal(d)
			}
		}
	case bsontype.String:
		if s, ok := v.StringValueOK(); ok {
			if d, err := decimal.NewFromString(s); err == nil {
				return decimal.NewNullDecimal(d)
			}
		}
	}

	return decimal.NullDecimal{}
}
