package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a content post. The JSON tags are the full public
// projection of the record; nothing else is serialized.
type Post struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement" validate:"gte=0"`
	Title       string     `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Content     string     `json:"content" gorm:"type:text;not null" validate:"required"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null" validate:"required"`
	Author      *string    `json:"author" gorm:"size:200" validate:"omitempty,max=200"`
	Category    *string    `json:"category" gorm:"size:100" validate:"omitempty,max=100"`
	UpdatedAt   *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
	LikesCount  int64      `json:"likes_count" gorm:"not null" validate:"gte=0"`
	AuthorID    *int64     `json:"author_id"`
	IsPublished bool       `json:"is_published" gorm:"not null"`
	Views       int64      `json:"views" gorm:"not null" validate:"gte=0"`
}

// TableName pins the table name used by the SQL backends.
func (Post) TableName() string {
	return "posts"
}

// CreatePostInput is the accepted shape of a create request.
type CreatePostInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Author   *string `json:"author"`
	Category *string `json:"category"`
	AuthorID *int64  `json:"author_id"`
}
