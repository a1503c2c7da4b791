package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type ContentRepository interface {
	Create(ctx context.Context, item *domain.ContentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.ContentItem, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, item *domain.ContentItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus, publishDate *time.Time) (*domain.ContentItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ContentFilter, params domain.PaginationParams) ([]domain.ContentItem, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	PublishDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type contentRepository struct {
	db   *sqlx.DB
	sess *dbr.Session
}

func NewContentRepository(db *sqlx.DB, sess *dbr.Session) ContentRepository {
	return &contentRepository{db: db, sess: sess}
}

func (r *contentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	if len(item.Settings) == 0 {
		item.Settings = []byte("{}")
	}

	query := `
		INSERT INTO content_items (content_id, title, slug, content_type, body, excerpt, category, tags,
			featured_image_url, status, is_featured, author_id, publish_date, published_at, settings,
			seo_title, seo_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Title, item.Slug, item.ContentType, item.Body, item.Excerpt, item.Category, item.Tags,
		item.FeaturedImageURL, item.Status, item.IsFeatured, item.AuthorID, item.PublishDate, item.PublishedAt,
		[]byte(item.Settings), item.SEOTitle, item.SEODescription,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *contentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.GetContext(ctx, &item, `SELECT * FROM content_items WHERE content_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	query := `SELECT * FROM content_items WHERE slug = $1 AND status = 'published'`

	err := r.db.GetContext(ctx, &item, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM content_items WHERE slug = $1 AND ($2::uuid IS NULL OR content_id <> $2::uuid))`
	err := r.db.GetContext(ctx, &exists, query, slug, excludeID)
	return exists, err
}

func (r *contentRepository) Update(ctx context.Context, item *domain.ContentItem) error {
	query := `
		UPDATE content_items
		SET title = $2, slug = $3, body = $4, excerpt = $5, category = $6, tags = $7,
			featured_image_url = $8, is_featured = $9, settings = $10, seo_title = $11,
			seo_description = $12, updated_at = NOW()
		WHERE content_id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Title, item.Slug, item.Body, item.Excerpt, item.Category, item.Tags,
		item.FeaturedImageURL, item.IsFeatured, []byte(item.Settings), item.SEOTitle, item.SEODescription,
	).Scan(&item.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *contentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus, publishDate *time.Time) (*domain.ContentItem, error) {
	var item domain.ContentItem
	query := `
		UPDATE content_items
		SET status = $2,
			publish_date = COALESCE($3, publish_date),
			published_at = CASE WHEN $4 THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE content_id = $1
		RETURNING *`

	err := r.db.GetContext(ctx, &item, query, id, status, publishDate, status == domain.ContentPublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE content_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *contentRepository) List(ctx context.Context, filter domain.ContentFilter, params domain.PaginationParams) ([]domain.ContentItem, int64, error) {
	params.Validate()

	conds := make([]dbr.Builder, 0, 6)
	if filter.ContentType != "" {
		conds = append(conds, dbr.Eq("content_type", filter.ContentType))
	}
	if filter.Status != "" {
		conds = append(conds, dbr.Eq("status", filter.Status))
	}
	if filter.Category != "" {
		conds = append(conds, dbr.Expr("LOWER(category) = LOWER(?)", filter.Category))
	}
	if filter.Tag != "" {
		conds = append(conds, dbr.Expr("? = ANY(tags)", filter.Tag))
	}
	if filter.Featured != nil {
		conds = append(conds, dbr.Eq("is_featured", *filter.Featured))
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		conds = append(conds, dbr.Or(
			dbr.Expr("title ILIKE ?", like),
			dbr.Expr("excerpt ILIKE ?", like),
			dbr.Expr("body ILIKE ?", like),
		))
	}

	count := r.sess.Select("COUNT(*)").From("content_items")
	list := r.sess.Select("*").From("content_items")
	if len(conds) > 0 {
		count.Where(dbr.And(conds...))
		list.Where(dbr.And(conds...))
	}

	var total int64
	if err := count.LoadOneContext(ctx, &total); err != nil {
		return nil, 0, err
	}

	var items []domain.ContentItem
	_, err := list.
		OrderBy("COALESCE(published_at, created_at) DESC").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset())).
		LoadContext(ctx, &items)
	return items, total, err
}

func (r *contentRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE content_items SET view_count = view_count + 1 WHERE content_id = $1`, id)
	return err
}

// PublishDue flips scheduled items whose publish date has passed and returns their ids.
func (r *contentRepository) PublishDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		UPDATE content_items
		SET status = 'published', published_at = NOW(), updated_at = NOW()
		WHERE status = 'scheduled' AND publish_date <= $1
		RETURNING content_id`
	err := r.db.SelectContext(ctx, &ids, query, now)
	return ids, err
}
