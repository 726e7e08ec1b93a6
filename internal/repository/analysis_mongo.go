package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"stockfish_harness/internal/domain"
	errs "stockfish_harness/internal/errors"
)

const analysesCollection = "analyses"

type MongoAnalysisStorage struct {
	db  *mongo.Database
	log *zap.SugaredLogger
}

func NewMongoAnalysisStorage(db *mongo.Database, log *zap.SugaredLogger) *MongoAnalysisStorage {
	return &MongoAnalysisStorage{
		db:  db,
		log: log,
	}
}

// EnsureIndexes creates the unique request_key index.
func (m *MongoAnalysisStorage) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(analysesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "request_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("request_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create analyses index: %w", err)
	}
	return nil
}

// SaveAnalysis inserts rec. A record already stored under the same request key wins.
func (m *MongoAnalysisStorage) SaveAnalysis(ctx context.Context, rec domain.AnalysisRecord) error {
	_, err := m.db.Collection(analysesCollection).InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		m.log.Infow("analysis already stored", "request_key", rec.RequestKey)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (m *MongoAnalysisStorage) GetAnalysisByID(ctx context.Context, id string) (domain.AnalysisRecord, error) {
	return m.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (m *MongoAnalysisStorage) GetAnalysisByRequestKey(ctx context.Context, key string) (domain.AnalysisRecord, error) {
	return m.findOne(ctx, bson.D{{Key: "request_key", Value: key}})
}

func (m *MongoAnalysisStorage) findOne(ctx context.Context, filter bson.D) (domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	err := m.db.Collection(analysesCollection).FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.AnalysisRecord{}, errs.ErrAnalysisNotFound
	}
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("failed to find analysis: %w", err)
	}
	if rec.Result.Variations == nil {
		rec.Result.Variations = []domain.Variation{}
	}
	return rec, nil
}
