package storage

import (
	"context"
	"fmt"
	"time"

	"expensetracker/ledger/model"
	"expensetracker/ledger/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExpensesCollection is the default collection holding expense documents.
const ExpensesCollection = "expenses"

// MongoRepository implements repository.Repository for MongoDB.
type MongoRepository struct {
	provider   CollectionProvider
	collection string
	timeout    time.Duration
}

var _ repository.Repository = (*MongoRepository)(nil)

// NewMongoRepository creates a new MongoRepository. Every call is bounded by
// timeout when it is positive.
func NewMongoRepository(provider CollectionProvider, collection string, timeout time.Duration) *MongoRepository {
	if collection == "" {
		collection = ExpensesCollection
	}

	return &MongoRepository{
		provider:   provider,
		collection: collection,
		timeout:    timeout,
	}
}

func (r *MongoRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, r.timeout)
}

// InsertExpense inserts one expense document and returns its new id.
func (r *MongoRepository) InsertExpense(ctx context.Context, expense model.Expense) (string, error) {
	document, err := toNewDocument(expense)
	if err != nil {
		return "", err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.provider.Collection(r.collection).InsertOne(ctx, document)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s collection: %w", r.collection, err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected id type %T returned for inserted expense", result.InsertedID)
	}

	return id.Hex(), nil
}

// FindAllExpenses returns every expense ordered by date, then insertion.
func (r *MongoRepository) FindAllExpenses(ctx context.Context) ([]model.Expense, error) {
	return r.find(ctx, bson.M{})
}

// FindExpensesBetween returns expenses with from <= date <= to.
func (r *MongoRepository) FindExpensesBetween(ctx context.Context, from, to string) ([]model.Expense, error) {
	return r.find(ctx, DateRangeFilter(from, to))
}

// DateRangeFilter matches documents whose canonical date lies in [from, to].
func DateRangeFilter(from, to string) bson.M {
	return bson.M{fieldDate: bson.M{"$gte": from, "$lte": to}}
}

// byDateThenInsertion orders by date, then _id. ObjectIDs start with their
// creation second followed by a per-process counter, so ties follow insertion
// order only for documents inserted by one process. Documents inserted by
// different clients within the same second may sort in either order.
func byDateThenInsertion() bson.D {
	return bson.D{{Key: fieldDate, Value: 1}, {Key: fieldID, Value: 1}}
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]model.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.provider.Collection(r.collection).Find(ctx, filter, options.Find().SetSort(byDateThenInsertion()))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s collection: %w", r.collection, err)
	}

	var documents []expenseDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", r.collection, err)
	}

	expenses := make([]model.Expense, 0, len(documents))
	for _, doc := range documents {
		expenses = append(expenses, doc.toExpense())
	}

	return expenses, nil
}

// DeleteExpense deletes the expense with the given hex id.
func (r *MongoRepository) DeleteExpense(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w %q: %w", repository.ErrInvalidID, id, err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.provider.Collection(r.collection).DeleteOne(ctx, bson.M{fieldID: objectID})
	if err != nil {
		return fmt.Errorf("failed to delete from %s collection: %w", r.collection, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}

	return nil
}
