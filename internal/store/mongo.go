package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenmason/greenmason/pkg/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore implements Store on MongoDB. The client and its pool are
// created once at startup and shared process-wide; per-user aggregate
// updates use server-side $inc so concurrent increments never lose
// updates.
type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	actions *mongo.Collection
	pledges *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection, and ensures
// the indexes the query paths rely on (unique username, score ordering).
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:  client,
		users:   db.Collection("users"),
		actions: db.Collection("actions"),
		pledges: db.Collection("pledges"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	log.Info().Str("database", database).Msg("Connected to MongoDB")
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "total_score", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.actions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.pledges.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ── Users ───────────────────────────────────────────────────

func (s *MongoStore) CreateUser(ctx context.Context, username, displayName string) (*models.User, error) {
	if displayName == "" {
		displayName = username
	}
	now := time.Now().UTC()
	user := &models.User{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   now,
		LastActive:  now,
	}

	_, err := s.users.InsertOne(ctx, user)
	if err != nil {
		// Uniqueness on username makes creation idempotent: a second
		// create returns the existing record untouched.
		if mongo.IsDuplicateKeyError(err) {
			return s.GetUser(ctx, username)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *MongoStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, &ErrNotFound{Entity: "user", Key: username}
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) UserRank(ctx context.Context, username string) (int, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	higher, err := s.users.CountDocuments(ctx, bson.M{
		"total_score": bson.M{"$gt": user.TotalScore},
	})
	if err != nil {
		return 0, fmt.Errorf("count higher scores: %w", err)
	}
	return int(higher) + 1, nil
}

// ── Action Ledger ───────────────────────────────────────────

func (s *MongoStore) LogAction(ctx context.Context, username string, kind models.ActionKind, points int, description string) (*models.ActionResult, error) {
	now := time.Now().UTC()

	// Create-if-absent with a zero baseline, so the increment below always
	// has a row to land on.
	_, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$setOnInsert": bson.M{
			"username":      username,
			"display_name":  username,
			"total_score":   0,
			"actions_count": 0,
			"created_at":    now,
			"last_active":   now,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	_, err = s.actions.InsertOne(ctx, &models.Action{
		ID:          uuid.New().String(),
		Username:    username,
		Kind:        kind,
		Points:      points,
		Description: description,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}

	// Server-side $inc keeps concurrent increments linearizable; no
	// read-modify-write at the application layer. If this fails after the
	// ledger insert succeeded the aggregate is behind by one entry — no
	// compensation is attempted, matching the reference behavior.
	var updated models.User
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		bson.M{
			"$inc": bson.M{"total_score": points, "actions_count": 1},
			"$set": bson.M{"last_active": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("increment score: %w", err)
	}

	return &models.ActionResult{
		Username:    username,
		PointsAdded: points,
		NewTotal:    updated.TotalScore,
		Kind:        kind,
	}, nil
}

func (s *MongoStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	cursor, err := s.users.Find(ctx,
		bson.M{"total_score": bson.M{"$gt": 0}},
		options.Find().
			SetSort(bson.D{{Key: "total_score", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.LeaderboardEntry, 0, limit)
	rank := 1
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode leaderboard row: %w", err)
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:         rank,
			Username:     u.Username,
			DisplayName:  u.DisplayName,
			TotalScore:   u.TotalScore,
			ActionsCount: u.ActionsCount,
		})
		rank++
	}
	return entries, cursor.Err()
}

// ── Pledges ─────────────────────────────────────────────────

func (s *MongoStore) CreatePledge(ctx context.Context, username, pledgeText string) (*models.Pledge, error) {
	user, err := s.CreateUser(ctx, username, "")
	if err != nil {
		return nil, err
	}

	pledge := &models.Pledge{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: user.DisplayName,
		PledgeText:  pledgeText,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.pledges.InsertOne(ctx, pledge); err != nil {
		return nil, fmt.Errorf("insert pledge: %w", err)
	}

	// Credit after the insert. Not transactional: a failure here leaves
	// the pledge visible without its points.
	if _, err := s.LogAction(ctx, username, models.ActionPledge, models.PledgePoints, TruncateDescription(pledgeText)); err != nil {
		return nil, err
	}
	return pledge, nil
}

func (s *MongoStore) ListPledges(ctx context.Context, limit int) ([]models.Pledge, error) {
	cursor, err := s.pledges.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("query pledges: %w", err)
	}
	defer cursor.Close(ctx)

	pledges := make([]models.Pledge, 0, limit)
	if err := cursor.All(ctx, &pledges); err != nil {
		return nil, fmt.Errorf("decode pledges: %w", err)
	}
	return pledges, nil
}

func (s *MongoStore) LikePledge(ctx context.Context, id string) error {
	res, err := s.pledges.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"likes": 1}})
	if err != nil {
		return fmt.Errorf("like pledge: %w", err)
	}
	if res.MatchedCount == 0 {
		return &ErrNotFound{Entity: "pledge", Key: id}
	}
	return nil
}

// ── Stats ───────────────────────────────────────────────────

func (s *MongoStore) GlobalStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{ActionBreakdown: make(map[string]int64)}

	var err error
	if stats.TotalUsers, err = s.users.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalActions, err = s.actions.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count actions: %w", err)
	}
	if stats.TotalPledges, err = s.pledges.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count pledges: %w", err)
	}

	// Sum of all user scores.
	cursor, err := s.users.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_score"}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate total points: %w", err)
	}
	var totals []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("decode total points: %w", err)
	}
	if len(totals) > 0 {
		stats.TotalPoints = totals[0].Total
	}

	// Per-kind action counts.
	cursor, err = s.actions.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$action"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate action breakdown: %w", err)
	}
	var breakdown []struct {
		Kind  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &breakdown); err != nil {
		return nil, fmt.Errorf("decode action breakdown: %w", err)
	}
	for _, b := range breakdown {
		stats.ActionBreakdown[b.Kind] = b.Count
	}
	return stats, nil
}
