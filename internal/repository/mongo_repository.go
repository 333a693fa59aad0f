package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adarsh062/VibeCart/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("cart_items"),
	}
}

func (m *MongoRepository) FindByProductID(ctx context.Context, productID string) (*domain.LineItem, error) {
	var item domain.LineItem

	filter := bson.M{"product_id": productID}
	err := m.collection.FindOne(ctx, filter).Decode(&item)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to find line item: %w", err)
	}

	return &item, nil
}

func (m *MongoRepository) Insert(ctx context.Context, item *domain.LineItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if item.ID == "" {
		item.ID = primitive.NewObjectID().Hex()
	}

	if _, err := m.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert line item: %w", err)
	}

	return nil
}

// UpdateQuantity sets the quantity of an existing line and returns the
// updated document. Display fields are never touched here, so whatever
// was written on first insert stays.
func (m *MongoRepository) UpdateQuantity(ctx context.Context, productID string, quantity int) (*domain.LineItem, error) {
	filter := bson.M{"product_id": productID}
	update := bson.M{"$set": bson.M{"quantity": quantity}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.LineItem
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	return &item, nil
}

func (m *MongoRepository) Delete(ctx context.Context, productID string) error {
	filter := bson.M{"product_id": productID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete line item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrLineNotFound
	}

	return nil
}

// DeleteAll clears every line in the cart. Each document delete is atomic
// on its own but the operation as a whole is not transactional: a failure
// partway leaves the surviving lines in place.
func (m *MongoRepository) DeleteAll(ctx context.Context) error {
	if _, err := m.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) List(ctx context.Context) ([]domain.LineItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.LineItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to read line items: %w", err)
	}

	return items, nil
}

// CreateIndexes enforces one line per product at the store level, a
// backstop for the in-process serialization.
func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "added_at", Value: 1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
