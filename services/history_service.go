package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
)

// HistoryService persists chat transcripts to MongoDB. The conversation never
// depends on it: with no database configured every method is a no-op, and a
// failed write only logs.
type HistoryService struct {
	db     *mongo.Database
	logger *logging.Logger
}

func NewHistoryService(db *mongo.Database, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryService{db: db, logger: logger}
}

// Enabled reports whether transcripts are being persisted.
func (s *HistoryService) Enabled() bool {
	return s.db != nil
}

// Record stores one chat turn. Best effort; errors are logged, not returned.
func (s *HistoryService) Record(ctx context.Context, msg *models.Message) {
	if s.db == nil {
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.Collection("messages").InsertOne(ctx, msg); err != nil {
		s.logger.Error("failed to record chat message", "error", err, "session_id", msg.SessionID)
	}
}

// RecentBySession returns up to limit transcript entries for a session,
// newest first.
func (s *HistoryService) RecentBySession(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection("messages").Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
