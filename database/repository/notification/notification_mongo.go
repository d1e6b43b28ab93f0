package notificationRepo

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

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates a new instance of NotificationRepository using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("notifications")
	repo := &MongoNotificationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
// The (userId, title) index is non-unique: duplicate titles across
// unrelated creation events are allowed.
func (r *MongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "seen", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new notification document.
func (r *MongoNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser retrieves all of a user's notifications, newest first.
func (r *MongoNotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// ExistsByTitle reports whether the user already has a notification with
// the given title.
func (r *MongoNotificationRepo) ExistsByTitle(ctx context.Context, userID, title string) (bool, error) {
	filter := bson.M{"userId": userID, "title": title}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check for existing notification: %w", err)
	}
	return count > 0, nil
}

// CountUnseen counts the user's notifications with seen=false.
func (r *MongoNotificationRepo) CountUnseen(ctx context.Context, userID string) (int64, error) {
	filter := bson.M{"userId": userID, "seen": false}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unseen notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkSeen sets seen=true on one of the user's notifications.
func (r *MongoNotificationRepo) MarkSeen(ctx context.Context, userID, id string) error {
	filter := bson.M{"id": id, "userId": userID}
	update := bson.M{"$set": bson.M{"seen": true}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s as seen: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("notification with id %s not found", id)
	}
	return nil
}

// MarkAllSeen sets seen=true on all of the user's notifications.
func (r *MongoNotificationRepo) MarkAllSeen(ctx context.Context, userID string) error {
	filter := bson.M{"userId": userID, "seen": false}
	update := bson.M{"$set": bson.M{"seen": true}}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark notifications as seen for user %s: %w", userID, err)
	}
	return nil
}

// Delete removes one of the user's notifications by its ID.
func (r *MongoNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	filter := bson.M{"id": id, "userId": userID}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete notification with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("notification with id %s not found", id)
	}
	return nil
}
