package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/qnahub/backend/internal/domain/posts"
)

// PostRepository is an in-memory implementation of posts.Repository.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]posts.Post
}

// NewPostRepository returns an initialized in-memory repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]posts.Post),
	}
}

// FindByID returns a post by identifier.
func (r *PostRepository) FindByID(id string) (posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return posts.Post{}, posts.ErrNotFound
	}
	return p, nil
}

// Save inserts or updates a post record.
func (r *PostRepository) Save(post posts.Post) (posts.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = newID()
		post.CreatedAt = now
	} else {
		existing, ok := r.posts[post.ID]
		if ok {
			if post.CreatedAt.IsZero() {
				post.CreatedAt = existing.CreatedAt
			}
		} else {
			post.CreatedAt = now
		}
	}
	post.UpdatedAt = now
	r.posts[post.ID] = post
	return post, nil
}

// Delete removes a post record.
func (r *PostRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return posts.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

// List returns posts newest first with offset/limit pagination.
func (r *PostRepository) List(offset, limit int) ([]posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]posts.Post, 0, len(r.posts))
	for _, p := range r.posts {
		list = append(list, p)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return paginate(list, offset, limit), nil
}

// paginate applies offset/limit slicing shared by the list operations.
func paginate[T any](list []T, offset, limit int) []T {
	if offset > len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
