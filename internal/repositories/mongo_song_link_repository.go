package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smartlink/internal/models"
)

// mongoSongLinkRepository implements SongLinkRepository using MongoDB
type mongoSongLinkRepository struct {
	collection *mongo.Collection
}

// NewMongoSongLinkRepository creates a new MongoDB-backed song link repository
func NewMongoSongLinkRepository(db *models.Database) SongLinkRepository {
	return &mongoSongLinkRepository{
		collection: db.DB.Collection(models.SongLinksCollection),
	}
}

// Save upserts the record by slug
func (r *mongoSongLinkRepository) Save(ctx context.Context, song *models.SongLink) error {
	if song.Slug == "" {
		return ErrInvalidSlug
	}

	now := time.Now()
	song.SchemaVersion = models.CurrentSchemaVersion
	song.UpdatedAt = now
	if song.CreatedAt.IsZero() {
		song.CreatedAt = now
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"slug": song.Slug}, song, opts)
	if err != nil {
		return fmt.Errorf("failed to save song link: %w", err)
	}
	return nil
}

// FindBySlug finds a song link by its slug
func (r *mongoSongLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.SongLink, error) {
	var song models.SongLink
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&song)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find song link by slug: %w", err)
	}

	r.handleSchemaEvolution(&song)
	return &song, nil
}

// List returns every song link, newest first
func (r *mongoSongLinkRepository) List(ctx context.Context) ([]*models.SongLink, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "slug", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list song links: %w", err)
	}
	defer cursor.Close(ctx)

	songs := make([]*models.SongLink, 0)
	for cursor.Next(ctx) {
		var song models.SongLink
		if err := cursor.Decode(&song); err != nil {
			slog.Error("Failed to decode song link", "error", err)
			continue
		}
		r.handleSchemaEvolution(&song)
		songs = append(songs, &song)
	}

	return songs, cursor.Err()
}

// Count returns the total number of song links
func (r *mongoSongLinkRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count song links: %w", err)
	}
	return count, nil
}

// handleSchemaEvolution upgrades documents written by older versions
func (r *mongoSongLinkRepository) handleSchemaEvolution(song *models.SongLink) {
	if song.SchemaVersion >= models.CurrentSchemaVersion {
		return
	}

	// Version 0 documents predate the untitled placeholder
	if song.Title == "" {
		song.Title = models.UntitledTrack
	}
	song.SchemaVersion = models.CurrentSchemaVersion

	// Lazy write-back of the upgraded document
	go func(s models.SongLink) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Save(ctx, &s); err != nil {
			slog.Error("Failed to update song link schema version", "slug", s.Slug, "error", err)
		}
	}(*song)
}

// profileDocumentID is the _id of the single profile document
const profileDocumentID = "main"

type profileDocument struct {
	ID        string               `bson:"_id"`
	Links     []models.ProfileLink `bson:"links"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// mongoProfileLinkRepository stores the profile links as one document
type mongoProfileLinkRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileLinkRepository creates a MongoDB-backed profile link repository
func NewMongoProfileLinkRepository(db *models.Database) ProfileLinkRepository {
	return &mongoProfileLinkRepository{
		collection: db.DB.Collection(models.ProfileCollection),
	}
}

func (r *mongoProfileLinkRepository) GetLinks(ctx context.Context) ([]models.ProfileLink, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": profileDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.ProfileLink{}, nil
		}
		return nil, fmt.Errorf("failed to load profile links: %w", err)
	}
	if doc.Links == nil {
		doc.Links = []models.ProfileLink{}
	}
	return doc.Links, nil
}

func (r *mongoProfileLinkRepository) ReplaceLinks(ctx context.Context, links []models.ProfileLink) error {
	doc := profileDocument{
		ID:        profileDocumentID,
		Links:     links,
		UpdatedAt: time.Now(),
	}
	if doc.Links == nil {
		doc.Links = []models.ProfileLink{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profileDocumentID}, doc, opts); err != nil {
		return fmt.Errorf("failed to replace profile links: %w", err)
	}
	return nil
}
