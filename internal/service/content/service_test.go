package content_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"servicehub/internal/domain"
	"servicehub/internal/mocks"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/service/content"
)

type fixture struct {
	repo  *mocks.ContentRepository
	cache *mocks.CacheStore
	svc   content.Service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		repo:  new(mocks.ContentRepository),
		cache: new(mocks.CacheStore),
	}
	svc, err := content.NewService(f.repo, f.cache, new(mocks.Storage), zap.NewNop())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("suffixes a taken slug", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("SlugExists", ctx, "cafe-tips", (*uuid.UUID)(nil)).Return(true, nil).Once()
		f.repo.On("SlugExists", ctx, "cafe-tips-2", (*uuid.UUID)(nil)).Return(true, nil).Once()
		f.repo.On("SlugExists", ctx, "cafe-tips-3", (*uuid.UUID)(nil)).Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(item *domain.ContentItem) bool {
			return item.Slug == "cafe-tips-3" && item.Status == domain.ContentDraft && string(item.Settings) == "{}"
		})).Return(nil).Once()
		f.cache.On("DeletePattern", ctx, cache.ContentKeysGlob).Return(nil).Once()

		item, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{
			Title:       "Café Tips!",
			ContentType: domain.ContentBlog,
		})

		require.NoError(t, err)
		assert.Equal(t, "cafe-tips-3", item.Slug)
		assert.Equal(t, authorID, *item.AuthorID)
		f.repo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("job posting requires employment type", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{
			Title:       "Site Engineer",
			ContentType: domain.ContentJobPosting,
			Settings:    json.RawMessage(`{"department": "Operations"}`),
		})

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Message, "job_posting")
	})

	t.Run("job posting rejects unknown employment type", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{
			Title:       "Site Engineer",
			ContentType: domain.ContentJobPosting,
			Settings:    json.RawMessage(`{"employment_type": "forever"}`),
		})

		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("valid job posting", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("SlugExists", ctx, "site-engineer", (*uuid.UUID)(nil)).Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.cache.On("DeletePattern", ctx, cache.ContentKeysGlob).Return(nil).Once()

		item, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{
			Title:       "Site Engineer",
			ContentType: domain.ContentJobPosting,
			Settings:    json.RawMessage(`{"employment_type": "full_time", "location": "Lagos"}`),
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"employment_type": "full_time", "location": "Lagos"}`, string(item.Settings))
	})

	t.Run("scheduled content needs a future date", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("SlugExists", ctx, "launch", (*uuid.UUID)(nil)).Return(false, nil).Once()
		past := time.Now().Add(-time.Hour)

		_, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{
			Title:       "Launch",
			ContentType: domain.ContentAnnouncement,
			Status:      domain.ContentScheduled,
			PublishDate: &past,
		})

		assert.ErrorIs(t, err, content.ErrPublishDateInPast)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, authorID, domain.CreateContentInput{Title: "x", ContentType: "podcast"})

		assert.ErrorIs(t, err, content.ErrInvalidType)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("archived cannot be published directly", func(t *testing.T) {
		f := newFixture(t)
		item := &domain.ContentItem{ID: uuid.New(), Status: domain.ContentArchived}
		f.repo.On("GetByID", ctx, item.ID).Return(item, nil).Once()

		_, err := f.svc.Publish(ctx, item.ID)

		assert.ErrorIs(t, err, content.ErrInvalidTransition)
	})

	t.Run("publish draft", func(t *testing.T) {
		f := newFixture(t)
		item := &domain.ContentItem{ID: uuid.New(), Status: domain.ContentDraft}
		now := time.Now()
		published := &domain.ContentItem{ID: item.ID, Status: domain.ContentPublished, PublishedAt: &now}
		f.repo.On("GetByID", ctx, item.ID).Return(item, nil).Once()
		f.repo.On("UpdateStatus", ctx, item.ID, domain.ContentPublished, (*time.Time)(nil)).Return(published, nil).Once()
		f.cache.On("DeletePattern", ctx, cache.ContentKeysGlob).Return(nil).Once()

		result, err := f.svc.Publish(ctx, item.ID)

		require.NoError(t, err)
		assert.NotNil(t, result.PublishedAt)
	})

	t.Run("schedule in the past", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Schedule(ctx, uuid.New(), time.Now().Add(-time.Minute))

		assert.ErrorIs(t, err, content.ErrPublishDateInPast)
	})
}

func TestGetPublished(t *testing.T) {
	ctx := context.Background()
	item := domain.ContentItem{ID: uuid.New(), Slug: "hello", Status: domain.ContentPublished}

	t.Run("cache miss loads and caches", func(t *testing.T) {
		f := newFixture(t)
		f.cache.On("Get", ctx, cache.ContentSlugKey("hello"), mock.Anything).Return(cache.ErrMiss).Once()
		f.repo.On("GetPublishedBySlug", ctx, "hello").Return(&item, nil).Once()
		f.cache.On("Set", ctx, cache.ContentSlugKey("hello"), item, cache.ContentTTL).Return(nil).Once()
		f.repo.On("IncrementViews", ctx, item.ID).Return(nil).Once()

		got, err := f.svc.GetPublished(ctx, "hello")

		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
		f.cache.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("cache hit still counts the view", func(t *testing.T) {
		f := newFixture(t)
		f.cache.On("Get", ctx, cache.ContentSlugKey("hello"), mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*domain.ContentItem) = item
			}).Return(nil).Once()
		f.repo.On("IncrementViews", ctx, item.ID).Return(nil).Once()

		got, err := f.svc.GetPublished(ctx, "hello")

		require.NoError(t, err)
		assert.Equal(t, "hello", got.Slug)
		f.repo.AssertNotCalled(t, "GetPublishedBySlug", mock.Anything, mock.Anything)
	})

	t.Run("not published", func(t *testing.T) {
		f := newFixture(t)
		f.cache.On("Get", ctx, cache.ContentSlugKey("draft"), mock.Anything).Return(cache.ErrMiss).Once()
		f.repo.On("GetPublishedBySlug", ctx, "draft").Return(nil, nil).Once()

		_, err := f.svc.GetPublished(ctx, "draft")

		assert.ErrorIs(t, err, content.ErrContentNotFound)
	})
}

func TestPublishDue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	repo := new(mocks.ContentRepository)
	cacheStore := new(mocks.CacheStore)
	core, logs := observer.New(zap.InfoLevel)
	svc, err := content.NewService(repo, cacheStore, new(mocks.Storage), zap.New(core))
	require.NoError(t, err)

	repo.On("PublishDue", ctx, now).Return([]uuid.UUID{uuid.New(), uuid.New()}, nil).Once()
	cacheStore.On("DeletePattern", ctx, cache.ContentKeysGlob).Return(nil).Once()

	n, err := svc.PublishDue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	cacheStore.AssertExpectations(t)

	entries := logs.FilterMessage("published scheduled content").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
}

func TestPublishDue_NothingDue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	f := newFixture(t)
	f.repo.On("PublishDue", ctx, now).Return([]uuid.UUID{}, nil).Once()

	n, err := f.svc.PublishDue(ctx, now)

	require.NoError(t, err)
	assert.Zero(t, n)
	f.cache.AssertNotCalled(t, "DeletePattern", mock.Anything, mock.Anything)
}
