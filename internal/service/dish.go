package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"chef/internal/model"
	"chef/internal/repository"
	"chef/internal/storage"
)

// MaxTitleLength bounds dish titles, counted in characters.
const MaxTitleLength = 200

// DishInput carries the editable fields of a dish.
type DishInput struct {
	Title                  string
	Text                   string
	ExcludeFromSuggestions bool
}

// DishOptions tunes the dish service.
type DishOptions struct {
	SuggestionLimit int
	PhotoURLExpiry  time.Duration
}

// DishService defines the use cases for a user's dish catalog.
type DishService interface {
	// List returns the owner's dishes ordered by title, filtered by query when it is not blank.
	List(ctx context.Context, ownerID, query string) ([]model.Dish, error)

	// Suggest returns the owner's least recently scheduled dishes, skipping excluded ones.
	Suggest(ctx context.Context, ownerID string) ([]model.DishSuggestion, error)

	// Get returns a dish the owner may see.
	Get(ctx context.Context, ownerID, id string) (*model.Dish, error)

	// Create stores a new dish for the owner. ErrDuplicate when the title is already used.
	Create(ctx context.Context, ownerID string, in DishInput) (*model.Dish, error)

	// Update changes a dish the owner holds.
	Update(ctx context.Context, ownerID, id string, in DishInput) (*model.Dish, error)

	// Delete removes a dish, its photo and its meals.
	Delete(ctx context.Context, ownerID, id string) error

	// UploadPhoto stores a photo for the dish, replacing any previous one.
	UploadPhoto(ctx context.Context, ownerID, id string, r io.Reader, filename, contentType string, size int64) (*model.Dish, error)

	// PhotoURL returns a short-lived download URL for the dish photo.
	PhotoURL(ctx context.Context, ownerID, id string) (string, error)
}

type dishService struct {
	repo  repository.DishRepository
	store storage.Storage
	opts  DishOptions
	now   func() time.Time
}

// NewDishService constructs a DishService. store may be nil, which disables photos.
func NewDishService(repo repository.DishRepository, store storage.Storage, opts DishOptions) DishService {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = 10
	}
	if opts.PhotoURLExpiry <= 0 {
		opts.PhotoURLExpiry = 15 * time.Minute
	}
	return &dishService{repo: repo, store: store, opts: opts, now: time.Now}
}

func (s *dishService) List(ctx context.Context, ownerID, query string) ([]model.Dish, error) {
	return s.repo.ListByOwner(ctx, ownerID, strings.TrimSpace(query))
}

func (s *dishService) Suggest(ctx context.Context, ownerID string) ([]model.DishSuggestion, error) {
	ctx, span := tracer.Start(ctx, "DishService.Suggest")
	defer span.End()

	found, err := s.repo.LeastRecentlyScheduled(ctx, ownerID, s.opts.SuggestionLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]model.DishSuggestion, 0, len(found))
	for _, d := range found {
		if d.ExcludeFromSuggestions {
			continue
		}
		out = append(out, d)
	}
	span.SetAttributes(attribute.Int("chef.suggestions", len(out)))
	return out, nil
}

func (s *dishService) Get(ctx context.Context, ownerID, id string) (*model.Dish, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	dish, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if dish.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return dish, nil
}

func (s *dishService) Create(ctx context.Context, ownerID string, in DishInput) (*model.Dish, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	dish := &model.Dish{
		ID:                     uuid.New().String(),
		OwnerID:                ownerID,
		Title:                  title,
		Text:                   in.Text,
		ExcludeFromSuggestions: in.ExcludeFromSuggestions,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	stored, err := s.repo.Create(ctx, dish)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return stored, nil
}

func (s *dishService) Update(ctx context.Context, ownerID, id string, in DishInput) (*model.Dish, error) {
	dish, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	dish.Title = title
	dish.Text = in.Text
	dish.ExcludeFromSuggestions = in.ExcludeFromSuggestions
	dish.UpdatedAt = s.now().UTC()

	stored, err := s.repo.Update(ctx, dish)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update dish: %w", err)
	}
	return stored, nil
}

// Delete removes the photo first; if that fails the row is kept so the object is not orphaned.
func (s *dishService) Delete(ctx context.Context, ownerID, id string) error {
	dish, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if dish.PhotoKey != "" && s.store != nil {
		if err := s.store.Delete(ctx, dish.PhotoKey); err != nil {
			return fmt.Errorf("delete photo: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *dishService) UploadPhoto(ctx context.Context, ownerID, id string, r io.Reader, filename, contentType string, size int64) (*model.Dish, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	dish, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("dishes", ownerID, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"dish-id":           dish.ID,
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.repo.SetPhoto(ctx, dish.ID, obj.Key); err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// The previous object is unreachable once the row points at the new key.
	if dish.PhotoKey != "" {
		_ = s.store.Delete(ctx, dish.PhotoKey)
	}
	dish.PhotoKey = obj.Key
	return dish, nil
}

func (s *dishService) PhotoURL(ctx context.Context, ownerID, id string) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	dish, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if dish.PhotoKey == "" {
		return "", ErrNoPhoto
	}
	return s.store.PresignGet(ctx, dish.PhotoKey, s.opts.PhotoURLExpiry)
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
