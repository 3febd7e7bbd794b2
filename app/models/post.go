package models

import (
	"errors"
	"time"
)

// NewPost builds a post from create input with the record defaults applied.
func NewPost(in CreatePostInput) *Post {
	p := &Post{
		Title:       in.Title,
		Content:     in.Content,
		Author:      in.Author,
		Category:    in.Category,
		AuthorID:    in.AuthorID,
		IsPublished: true,
	}
	p.applyDefaults()
	return p
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// TimePrecision is the finest timestamp resolution every backend stores.
// Postgres keeps microseconds.
const TimePrecision = time.Microsecond

// applyDefaults stamps created_at unless it is already set.
func (p *Post) applyDefaults() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(TimePrecision)
	}
}

// Touch records a modification time.
func (p *Post) Touch(now time.Time) {
	t := now.UTC().Truncate(TimePrecision)
	p.UpdatedAt = &t
}

// CopyEditable copies the fields an update may change from src.
func (p *Post) CopyEditable(src *Post) {
	p.Title = src.Title
	p.Content = src.Content
	p.Author = src.Author
	p.Category = src.Category
	p.AuthorID = src.AuthorID
	p.IsPublished = src.IsPublished
	p.UpdatedAt = src.UpdatedAt
}
