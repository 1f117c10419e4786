package source

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dotcommander/innerscope/internal/profile"
)

// Collection names
const (
	CollectionStories     = "stories"
	CollectionMessages    = "messages"
	CollectionAssessments = "assessments"
	CollectionUserStats   = "user_stats"
)

// MongoSource reads profiles from four collections keyed by userId.
type MongoSource struct {
	client      *mongo.Client
	stories     *mongo.Collection
	messages    *mongo.Collection
	assessments *mongo.Collection
	stats       *mongo.Collection
}

// NewMongoSource wraps an existing database handle. Close leaves the
// client connected.
func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{
		stories:     db.Collection(CollectionStories),
		messages:    db.Collection(CollectionMessages),
		assessments: db.Collection(CollectionAssessments),
		stats:       db.Collection(CollectionUserStats),
	}
}

// ConnectMongo dials uri and verifies the connection. The returned source
// owns the client and disconnects it on Close.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	s := NewMongoSource(client.Database(database))
	s.client = client
	return s, nil
}

// Load reads every record of userID.
func (s *MongoSource) Load(ctx context.Context, userID string) (*profile.Input, error) {
	filter := bson.M{"userId": userID}
	bySeq := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}})

	var stories []StoryRecord
	if err := findAll(ctx, s.stories, filter, &stories, bySeq); err != nil {
		return nil, fmt.Errorf("mongo: load stories: %w", err)
	}

	var messages []MessageRecord
	if err := findAll(ctx, s.messages, filter, &messages, bySeq); err != nil {
		return nil, fmt.Errorf("mongo: load messages: %w", err)
	}

	var assessments []AssessmentRecord
	if err := findAll(ctx, s.assessments, filter, &assessments, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})); err != nil {
		return nil, fmt.Errorf("mongo: load assessments: %w", err)
	}

	var stats *StatsRecord
	var rec StatsRecord
	err := s.stats.FindOne(ctx, filter).Decode(&rec)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return nil, fmt.Errorf("mongo: load user stats: %w", err)
	default:
		stats = &rec
	}

	return assemble(userID, stories, messages, assessments, stats)
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out any, opts *options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// Close disconnects the client when the source owns it.
func (s *MongoSource) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
