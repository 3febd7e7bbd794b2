package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"contentservice/app/events"
	"contentservice/app/models"
	"contentservice/app/repositories"
)

const publishTimeout = 2 * time.Second

// ValidationError reports a post that failed field validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid post: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PostService handles business logic for posts
type PostService struct {
	postRepo  repositories.PostRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewPostService creates a new PostService. A nil publisher drops events.
func NewPostService(postRepo repositories.PostRepository, publisher events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PostService{
		postRepo:  postRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreatePost validates and stores a new post
func (s *PostService) CreatePost(ctx context.Context, in models.CreatePostInput) (*models.Post, error) {
	post := models.NewPost(in)
	if err := post.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.publish(ctx, events.New(events.PostCreated, post.ID).WithPost(post))
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts returns every post in ascending id order
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// UpdatePost applies patch to the stored post and returns the result.
func (s *PostService) UpdatePost(ctx context.Context, id int64, patch *models.PostPatch) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(post)
	post.Touch(s.now())
	if err := post.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	// counters may have moved since the read above
	updated, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.PostUpdated, id).WithPost(updated))
	return updated, nil
}

// DeletePost removes a post and reports how many rows went away (0 or 1).
func (s *PostService) DeletePost(ctx context.Context, id int64) (int64, error) {
	n, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, events.New(events.PostDeleted, id))
	}
	return n, nil
}

// LikePost atomically adds one like and returns the new total.
func (s *PostService) LikePost(ctx context.Context, id int64) (int64, error) {
	likes, err := s.postRepo.IncrementLikes(ctx, id)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, events.New(events.PostLiked, id).WithValue(likes))
	return likes, nil
}

// ViewPost atomically adds one view and returns the new total.
func (s *PostService) ViewPost(ctx context.Context, id int64) (int64, error) {
	views, err := s.postRepo.IncrementViews(ctx, id)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, events.New(events.PostViewed, id).WithValue(views))
	return views, nil
}

func (s *PostService) publish(ctx context.Context, e events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Printf("WARN: publish %s for post %d: %v", e.Type, e.PostID, err)
	}
}
