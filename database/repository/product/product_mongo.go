package productRepo

import (
	"context"
	"fmt"
	"time"

	"datex/config"
	"datex/database"
	"datex/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepo implements ProductRepository using MongoDB.
type MongoProductRepo struct {
	coll *mongo.Collection
}

// NewMongoProductRepo creates a new instance of ProductRepository using MongoDB.
func NewMongoProductRepo() ProductRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("products")
	repo := &MongoProductRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoProductRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "notified", Value: 1}, {Key: "expiry", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new product document.
func (r *MongoProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves one of the user's products by its unique ID.
func (r *MongoProductRepo) GetByID(ctx context.Context, userID, id string) (*models.Product, error) {
	var product models.Product
	filter := bson.M{"id": id, "userId": userID}
	err := r.coll.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch product with id %s: %w", id, err)
	}
	return &product, nil
}

// ListByUser retrieves all products belonging to a user, newest first.
func (r *MongoProductRepo) ListByUser(ctx context.Context, userID string) ([]models.Product, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products for user %s: %w", userID, err)
	}
	return products, nil
}

// ListAll retrieves every product across all users. Used only by the
// scheduled sweep job.
func (r *MongoProductRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list all products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Update overwrites the mutable fields of an existing product. The filter
// includes the owner so a user can never update another user's record.
func (r *MongoProductRepo) Update(ctx context.Context, product *models.Product) error {
	filter := bson.M{"id": product.ID, "userId": product.UserID}
	update := bson.M{"$set": bson.M{
		"product":      product.Name,
		"expiry":       product.Expiry,
		"category":     product.Category,
		"quantity":     product.Quantity,
		"comment":      product.Comment,
		"remindBefore": product.RemindBefore,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update product with id %s: %w", product.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product with id %s not found", product.ID)
	}
	return nil
}

// Delete removes one of the user's products by its ID.
func (r *MongoProductRepo) Delete(ctx context.Context, userID, id string) error {
	filter := bson.M{"id": id, "userId": userID}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete product with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product with id %s not found", id)
	}
	return nil
}

// MarkNotified flips notified to true only if it is currently false. The
// conditional filter makes overlapping sweep runs safe: at most one of
// them observes ModifiedCount == 1.
func (r *MongoProductRepo) MarkNotified(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"id": id, "notified": false}
	update := bson.M{"$set": bson.M{"notified": true}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark product %s as notified: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}
