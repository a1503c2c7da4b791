package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ContentType string

const (
	ContentBlog         ContentType = "blog"
	ContentJobPosting   ContentType = "job_posting"
	ContentPage         ContentType = "page"
	ContentAnnouncement ContentType = "announcement"
	ContentFAQ          ContentType = "faq"
)

func (t ContentType) IsValid() bool {
	switch t {
	case ContentBlog, ContentJobPosting, ContentPage, ContentAnnouncement, ContentFAQ:
		return true
	default:
		return false
	}
}

type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentScheduled ContentStatus = "scheduled"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

var contentTransitions = map[ContentStatus][]ContentStatus{
	ContentDraft:     {ContentScheduled, ContentPublished, ContentArchived},
	ContentScheduled: {ContentPublished, ContentDraft, ContentArchived},
	ContentPublished: {ContentArchived, ContentDraft},
	ContentArchived:  {ContentDraft},
}

func (s ContentStatus) IsValid() bool {
	_, ok := contentTransitions[s]
	return ok
}

func (s ContentStatus) CanTransitionTo(next ContentStatus) bool {
	for _, allowed := range contentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ContentItem struct {
	ID               uuid.UUID       `json:"id" db:"content_id"`
	Title            string          `json:"title" db:"title"`
	Slug             string          `json:"slug" db:"slug"`
	ContentType      ContentType     `json:"content_type" db:"content_type"`
	Body             string          `json:"body" db:"body"`
	Excerpt          string          `json:"excerpt" db:"excerpt"`
	Category         string          `json:"category" db:"category"`
	Tags             pq.StringArray  `json:"tags" db:"tags"`
	FeaturedImageURL *string         `json:"featured_image_url,omitempty" db:"featured_image_url"`
	Status           ContentStatus   `json:"status" db:"status"`
	IsFeatured       bool            `json:"is_featured" db:"is_featured"`
	AuthorID         *uuid.UUID      `json:"author_id,omitempty" db:"author_id"`
	PublishDate      *time.Time      `json:"publish_date,omitempty" db:"publish_date"`
	PublishedAt      *time.Time      `json:"published_at,omitempty" db:"published_at"`
	ViewCount        int64           `json:"view_count" db:"view_count"`
	Settings         json.RawMessage `json:"settings" db:"settings"`
	SEOTitle         string          `json:"seo_title" db:"seo_title"`
	SEODescription   string          `json:"seo_description" db:"seo_description"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateContentInput struct {
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	ContentType      ContentType     `json:"content_type"`
	Body             string          `json:"body"`
	Excerpt          string          `json:"excerpt"`
	Category         string          `json:"category"`
	Tags             []string        `json:"tags"`
	FeaturedImageURL *string         `json:"featured_image_url"`
	Status           ContentStatus   `json:"status"`
	IsFeatured       bool            `json:"is_featured"`
	PublishDate      *time.Time      `json:"publish_date"`
	Settings         json.RawMessage `json:"settings"`
	SEOTitle         string          `json:"seo_title"`
	SEODescription   string          `json:"seo_description"`
}

type UpdateContentInput struct {
	Title            *string          `json:"title,omitempty"`
	Slug             *string          `json:"slug,omitempty"`
	Body             *string          `json:"body,omitempty"`
	Excerpt          *string          `json:"excerpt,omitempty"`
	Category         *string          `json:"category,omitempty"`
	Tags             *[]string        `json:"tags,omitempty"`
	FeaturedImageURL *string          `json:"featured_image_url,omitempty"`
	IsFeatured       *bool            `json:"is_featured,omitempty"`
	Settings         *json.RawMessage `json:"settings,omitempty"`
	SEOTitle         *string          `json:"seo_title,omitempty"`
	SEODescription   *string          `json:"seo_description,omitempty"`
}

type ScheduleContentInput struct {
	PublishDate time.Time `json:"publish_date"`
}

type ContentFilter struct {
	ContentType string
	Status      string
	Category    string
	Tag         string
	Query       string
	Featured    *bool
}
