package mock

import (
	"context"
	"sync"

	"contentservice/app/models"
	"contentservice/app/repositories"
)

// PostRepository is an in-memory repositories.PostRepository for tests.
// It stores copies so callers cannot mutate stored posts behind its back.
type PostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	mutex  sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int64]*models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id int64) (*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	return &out, nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for id := int64(1); id < m.nextID; id++ {
		if post, ok := m.posts[id]; ok {
			out := *post
			posts = append(posts, &out)
		}
	}
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	stored.CopyEditable(post)
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return 0, nil
	}
	delete(m.posts, id)
	return 1, nil
}

func (m *PostRepository) IncrementLikes(_ context.Context, id int64) (int64, error) {
	return m.increment(id, func(p *models.Post) *int64 { return &p.LikesCount })
}

func (m *PostRepository) IncrementViews(_ context.Context, id int64) (int64, error) {
	return m.increment(id, func(p *models.Post) *int64 { return &p.Views })
}

func (m *PostRepository) increment(id int64, counter func(*models.Post) *int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return 0, repositories.ErrNotFound
	}
	c := counter(post)
	*c++
	return *c, nil
}

func (m *PostRepository) Close() error {
	return nil
}
