package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rspo-readiness/internal/model"
)

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a MongoDB assessment record repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("assessment_results"),
	}
}

// ensureResultIndexes makes (userId, stage) unique
func ensureResultIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("assessment_results").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "stage", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Save upserts by (userId, stage), keeping the id of an existing record
func (r *resultRepo) Save(ctx context.Context, record *model.AssessmentRecord) error {
	existing, err := r.GetByUserStage(ctx, record.UserID, record.Stage)
	if err != nil {
		return err
	}
	switch {
	case existing != nil:
		record.ID = existing.ID
	case record.ID == "":
		record.ID = uuid.NewString()
	}

	filter := bson.M{"userId": record.UserID, "stage": record.Stage}
	opts := options.Replace().SetUpsert(true)
	_, err = r.collection.ReplaceOne(ctx, filter, record, opts)
	return err
}

func (r *resultRepo) GetByUserStage(ctx context.Context, userID string, stage model.Stage) (*model.AssessmentRecord, error) {
	var record model.AssessmentRecord
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "stage": stage}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *resultRepo) GetByUser(ctx context.Context, userID string) ([]*model.AssessmentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stage", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.AssessmentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *resultRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
