package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/pkg/slug"
	"servicehub/internal/repository"
	"servicehub/internal/storage"
)

var (
	ErrContentNotFound   = errors.New("content not found")
	ErrInvalidType       = errors.New("invalid content type")
	ErrInvalidStatus     = errors.New("invalid content status")
	ErrTitleRequired     = errors.New("title is required")
	ErrSlugTaken         = errors.New("slug is already in use")
	ErrPublishDateInPast = errors.New("publish_date must be in the future")
	ErrInvalidTransition = errors.New("content cannot move to that status")
)

const maxSlugAttempts = 100

// Public listing kinds.
const (
	ListBlog     = "blog"
	ListJobs     = "jobs"
	ListFeatured = "featured"
)

type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, input domain.CreateContentInput) (*domain.ContentItem, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateContentInput) (*domain.ContentItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	List(ctx context.Context, filter domain.ContentFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ContentItem], error)
	Publish(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	Schedule(ctx context.Context, id uuid.UUID, publishDate time.Time) (*domain.ContentItem, error)
	Archive(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	UploadMedia(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (*storage.Object, error)

	GetPublished(ctx context.Context, slug string) (*domain.ContentItem, error)
	ListPublished(ctx context.Context, kind string, params domain.PaginationParams) (domain.PaginatedResponse[domain.ContentItem], error)
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	contentRepo repository.ContentRepository
	cache       cache.Store
	storage     storage.Storage
	validator   *settingsValidator
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(contentRepo repository.ContentRepository, cacheStore cache.Store, store storage.Storage, logger *zap.Logger) (Service, error) {
	validator, err := newSettingsValidator()
	if err != nil {
		return nil, err
	}
	return &service{
		contentRepo: contentRepo,
		cache:       cacheStore,
		storage:     store,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input domain.CreateContentInput) (*domain.ContentItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !input.ContentType.IsValid() {
		return nil, ErrInvalidType
	}
	if input.Status == "" {
		input.Status = domain.ContentDraft
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	settings, err := s.validator.Validate(ctx, input.ContentType, input.Settings)
	if err != nil {
		return nil, err
	}

	base := input.Slug
	if strings.TrimSpace(base) == "" {
		base = title
	}
	itemSlug, err := s.uniqueSlug(ctx, base, nil)
	if err != nil {
		return nil, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	item := &domain.ContentItem{
		ID:               uuid.New(),
		Title:            title,
		Slug:             itemSlug,
		ContentType:      input.ContentType,
		Body:             input.Body,
		Excerpt:          input.Excerpt,
		Category:         input.Category,
		Tags:             tags,
		FeaturedImageURL: input.FeaturedImageURL,
		Status:           input.Status,
		IsFeatured:       input.IsFeatured,
		AuthorID:         &authorID,
		PublishDate:      input.PublishDate,
		Settings:         settings,
		SEOTitle:         input.SEOTitle,
		SEODescription:   input.SEODescription,
	}

	switch item.Status {
	case domain.ContentScheduled:
		if item.PublishDate == nil || !item.PublishDate.After(s.now()) {
			return nil, ErrPublishDateInPast
		}
	case domain.ContentPublished:
		now := s.now()
		item.PublishedAt = &now
	}

	if err := s.contentRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.invalidate(ctx)
	return item, nil
}

// uniqueSlug normalizes base and appends -2, -3, ... until no other item uses it.
func (s *service) uniqueSlug(ctx context.Context, base string, excludeID *uuid.UUID) (string, error) {
	normalized := slug.Make(base)
	if normalized == "" {
		normalized = "content"
	}

	candidate := normalized
	for n := 2; n < maxSlugAttempts+2; n++ {
		exists, err := s.contentRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.WithSuffix(normalized, n)
	}
	return "", ErrSlugTaken
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateContentInput) (*domain.ContentItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		item.Title = title
	}
	if input.Slug != nil && slug.Make(*input.Slug) != item.Slug {
		newSlug, err := s.uniqueSlug(ctx, *input.Slug, &item.ID)
		if err != nil {
			return nil, err
		}
		item.Slug = newSlug
	}
	if input.Body != nil {
		item.Body = *input.Body
	}
	if input.Excerpt != nil {
		item.Excerpt = *input.Excerpt
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Tags != nil {
		item.Tags = *input.Tags
	}
	if input.FeaturedImageURL != nil {
		item.FeaturedImageURL = input.FeaturedImageURL
	}
	if input.IsFeatured != nil {
		item.IsFeatured = *input.IsFeatured
	}
	if input.Settings != nil {
		settings, err := s.validator.Validate(ctx, item.ContentType, *input.Settings)
		if err != nil {
			return nil, err
		}
		item.Settings = settings
	}
	if input.SEOTitle != nil {
		item.SEOTitle = *input.SEOTitle
	}
	if input.SEODescription != nil {
		item.SEODescription = *input.SEODescription
	}

	if err := s.contentRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.invalidate(ctx)
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contentRepo.Delete(ctx, item.ID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrContentNotFound
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filter domain.ContentFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ContentItem], error) {
	if filter.ContentType != "" && !domain.ContentType(filter.ContentType).IsValid() {
		return domain.PaginatedResponse[domain.ContentItem]{}, ErrInvalidType
	}
	if filter.Status != "" && !domain.ContentStatus(filter.Status).IsValid() {
		return domain.PaginatedResponse[domain.ContentItem]{}, ErrInvalidStatus
	}

	items, total, err := s.contentRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ContentItem]{}, err
	}
	return domain.NewPaginatedResponse(items, params, total), nil
}

func (s *service) transition(ctx context.Context, id uuid.UUID, next domain.ContentStatus, publishDate *time.Time) (*domain.ContentItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, item.Status, next)
	}

	updated, err := s.contentRepo.UpdateStatus(ctx, id, next, publishDate)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrContentNotFound
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	return s.transition(ctx, id, domain.ContentPublished, nil)
}

func (s *service) Schedule(ctx context.Context, id uuid.UUID, publishDate time.Time) (*domain.ContentItem, error) {
	if !publishDate.After(s.now()) {
		return nil, ErrPublishDateInPast
	}
	return s.transition(ctx, id, domain.ContentScheduled, &publishDate)
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	return s.transition(ctx, id, domain.ContentArchived, nil)
}

func (s *service) UploadMedia(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (*storage.Object, error) {
	if err := storage.Validate(contentType, size); err != nil {
		return nil, err
	}
	return s.storage.Save(ctx, "content", fileName, contentType, reader, size)
}

// GetPublished serves a published item by slug through the cache. Views are counted on every hit.
func (s *service) GetPublished(ctx context.Context, itemSlug string) (*domain.ContentItem, error) {
	key := cache.ContentSlugKey(itemSlug)

	var item domain.ContentItem
	err := s.cache.Get(ctx, key, &item)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("content cache unavailable", zap.String("key", key), zap.Error(err))
		}

		found, err := s.contentRepo.GetPublishedBySlug(ctx, itemSlug)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrContentNotFound
		}
		item = *found

		if err := s.cache.Set(ctx, key, item, cache.ContentTTL); err != nil {
			s.logger.Warn("failed to cache content", zap.String("key", key), zap.Error(err))
		}
	}

	if err := s.contentRepo.IncrementViews(ctx, item.ID); err != nil {
		s.logger.Warn("failed to count content view", zap.String("content_id", item.ID.String()), zap.Error(err))
	}
	return &item, nil
}

func (s *service) ListPublished(ctx context.Context, kind string, params domain.PaginationParams) (domain.PaginatedResponse[domain.ContentItem], error) {
	filter := domain.ContentFilter{Status: string(domain.ContentPublished)}
	switch kind {
	case ListBlog:
		filter.ContentType = string(domain.ContentBlog)
	case ListJobs:
		filter.ContentType = string(domain.ContentJobPosting)
	case ListFeatured:
		featured := true
		filter.Featured = &featured
	default:
		return domain.PaginatedResponse[domain.ContentItem]{}, ErrInvalidType
	}

	key := cache.ContentListKey(kind, params.CurrentPage(), params.PageSize)
	var cached domain.PaginatedResponse[domain.ContentItem]
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	items, total, err := s.contentRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ContentItem]{}, err
	}
	resp := domain.NewPaginatedResponse(items, params, total)

	if err := s.cache.Set(ctx, key, resp, cache.ContentTTL); err != nil {
		s.logger.Warn("failed to cache content list", zap.String("key", key), zap.Error(err))
	}
	return resp, nil
}

// PublishDue publishes scheduled items whose publish date has passed.
func (s *service) PublishDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.contentRepo.PublishDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		s.invalidate(ctx)
		s.logger.Info("published scheduled content", zap.Int("count", len(ids)))
	}
	return len(ids), nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.ContentKeysGlob); err != nil {
		s.logger.Warn("failed to invalidate content cache", zap.Error(err))
	}
}
