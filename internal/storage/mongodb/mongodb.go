package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"profile/internal/domain"
	"profile/internal/storage"
)

const defaultConnectTimeout = 10 * time.Second

type Storage struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *slog.Logger
	now        func() time.Time
}

func New(ctx context.Context, uri, database, collection string, log *slog.Logger) (*Storage, error) {
	const op = "storage.mongodb.New"

	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("connected to MongoDB", slog.String("database", database), slog.String("collection", collection))

	return &Storage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	return s.client.Disconnect(ctx)
}

func (s *Storage) ListProfiles(ctx context.Context, filter domain.ListProfilesFilter) (*domain.ProfilePage, error) {
	const op = "storage.mongodb.ListProfiles"

	filter = filter.Normalize()
	query := listFilter(filter)

	opts := options.Find().
		SetSkip(filter.Skip()).
		SetLimit(filter.Limit)
	if sort := sortSpec(filter.Sort); sort != nil {
		opts.SetSort(sort)
	}

	cur, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find profiles: %w", op, err)
	}

	var docs []profileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode profiles: %w", op, err)
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: count profiles: %w", op, err)
	}

	profiles := make([]*domain.Profile, 0, len(docs))
	for i := range docs {
		profiles = append(profiles, docs[i].toDomain())
	}

	return &domain.ProfilePage{
		Profiles:   profiles,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *Storage) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	const op = "storage.mongodb.GetProfile"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrProfileNotFound
	}

	var doc profileDocument
	err = s.collection.FindOne(ctx, activeByID(oid)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toDomain(), nil
}

func (s *Storage) CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	const op = "storage.mongodb.CreateProfile"

	now := s.now()
	doc := profileDocument{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Email:       req.Email,
		Skills:      []string{},
		Experiences: []experienceDocument{},
		Information: bson.M{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("Profile created", slog.String("profile_id", doc.ID.Hex()))
	return doc.toDomain(), nil
}

func (s *Storage) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if req.Empty() {
		return s.GetProfile(ctx, req.ID)
	}

	set := bson.D{}
	if req.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *req.Email})
	}

	return s.updateActive(ctx, "storage.mongodb.UpdateProfile", req.ID, bson.D{{Key: "$set", Value: set}}, storage.ErrProfileNotFound)
}

func (s *Storage) DeleteProfile(ctx context.Context, id string) error {
	const op = "storage.mongodb.DeleteProfile"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrProfileNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "deleted", Value: true},
		{Key: "updatedAt", Value: s.now()},
	}}}

	res, err := s.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrProfileNotFound
	}

	s.log.Info("Profile deleted", slog.String("profile_id", id))
	return nil
}

func (s *Storage) AddExperience(ctx context.Context, id string, exp domain.ExperienceInput) (*domain.Profile, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "experiences", Value: newExperienceDocument(exp)}}}}

	return s.updateActive(ctx, "storage.mongodb.AddExperience", id, update, storage.ErrProfileNotFound)
}

func (s *Storage) RemoveExperience(ctx context.Context, id, expID string) (*domain.Profile, error) {
	expOID, err := primitive.ObjectIDFromHex(expID)
	if err != nil {
		// no experience can carry a malformed id
		return s.GetProfile(ctx, id)
	}

	update := bson.D{{Key: "$pull", Value: bson.D{
		{Key: "experiences", Value: bson.D{{Key: "_id", Value: expOID}}},
	}}}

	return s.updateActive(ctx, "storage.mongodb.RemoveExperience", id, update, storage.ErrProfileNotFound)
}

func (s *Storage) AddSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	const op = "storage.mongodb.AddSkill"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrSkillNotAdded
	}

	filter := append(activeByID(oid), bson.E{Key: "skills", Value: bson.D{{Key: "$ne", Value: skill}}})
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "skills", Value: skill}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: s.now()}}},
	}

	return s.findOneAndUpdate(ctx, op, filter, update, storage.ErrSkillNotAdded)
}

func (s *Storage) RemoveSkill(ctx context.Context, id, skill string) (*domain.Profile, error) {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "skills", Value: skill}}}}

	return s.updateActive(ctx, "storage.mongodb.RemoveSkill", id, update, storage.ErrProfileNotFound)
}

func (s *Storage) ReplaceInformation(ctx context.Context, id string, info map[string]any) (*domain.Profile, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "information", Value: bson.M(info)}}}}

	return s.updateActive(ctx, "storage.mongodb.ReplaceInformation", id, update, storage.ErrProfileNotFound)
}

// updateActive applies update to the non-deleted profile with the given id
// and bumps updatedAt in the same step.
func (s *Storage) updateActive(ctx context.Context, op, id string, update bson.D, notFound error) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound
	}

	return s.findOneAndUpdate(ctx, op, activeByID(oid), withUpdatedAt(update, s.now()), notFound)
}

func (s *Storage) findOneAndUpdate(ctx context.Context, op string, filter, update bson.D, notFound error) (*domain.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDocument
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("Profile updated", slog.String("op", op), slog.String("profile_id", doc.ID.Hex()))
	return doc.toDomain(), nil
}

// withUpdatedAt merges updatedAt into the $set stage of update, adding the
// stage when it is missing.
func withUpdatedAt(update bson.D, now time.Time) bson.D {
	stamp := bson.E{Key: "updatedAt", Value: now}

	out := make(bson.D, 0, len(update)+1)
	merged := false
	for _, stage := range update {
		if set, ok := stage.Value.(bson.D); ok && stage.Key == "$set" {
			stage = bson.E{Key: "$set", Value: append(append(bson.D{}, set...), stamp)}
			merged = true
		}
		out = append(out, stage)
	}

	if !merged {
		out = append(out, bson.E{Key: "$set", Value: bson.D{stamp}})
	}

	return out
}
