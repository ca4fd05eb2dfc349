package repositories

import (
	"context"
	"sort"
	"sync"

	"hodolog/app/models"
)

// MemoryPostRepository keeps posts in process memory.
type MemoryPostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	mutex  sync.RWMutex
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts:  make(map[int64]*models.Post),
		nextID: 1,
	}
}

func (m *MemoryPostRepository) Save(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *MemoryPostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	found := *post
	return &found, nil
}

func (m *MemoryPostRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		found := *post
		posts = append(posts, &found)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *MemoryPostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return ErrNotFound
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *MemoryPostRepository) Delete(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// DeleteAll empties the repository without rewinding the ID counter.
func (m *MemoryPostRepository) DeleteAll(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.posts = make(map[int64]*models.Post)
	return nil
}

func (m *MemoryPostRepository) Count(ctx context.Context) (int64, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return int64(len(m.posts)), nil
}

func (m *MemoryPostRepository) Close() error {
	return nil
}
