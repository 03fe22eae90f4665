package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding tasks.
const CollectionName = "tasks"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the index used by per-user listing.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("tasks_user_created"),
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return task, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]*models.Task, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task := &models.Task{}
	err := r.coll.FindOne(ctx, ownedBy(userID, taskID)).Decode(task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return task, nil
}

func (r *MongoRepository) Update(ctx context.Context, task *models.Task) error {
	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"updated_at":  task.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if task.Deadline != nil {
		set["deadline"] = task.Deadline
	} else {
		update["$unset"] = bson.M{"deadline": ""}
	}

	res, err := r.coll.UpdateOne(ctx, ownedBy(task.UserID, task.ID), update)
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID, taskID string) error {
	res, err := r.coll.DeleteOne(ctx, ownedBy(userID, taskID))
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func ownedBy(userID, taskID string) bson.M {
	return bson.M{"_id": taskID, "user_id": userID}
}
