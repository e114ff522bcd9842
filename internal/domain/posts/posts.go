package posts

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for community posts.
var (
	ErrNotImplemented = errors.New("posts repository: not implemented")
	ErrNotFound       = errors.New("post not found")
)

// Post represents a community board post.
type Post struct {
	ID        string
	Title     string
	Content   string
	AuthorID  string
	Likes     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository abstracts persistence for posts.
type Repository interface {
	FindByID(id string) (Post, error)
	Save(post Post) (Post, error)
	Delete(id string) error
	List(offset, limit int) ([]Post, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) FindByID(id string) (Post, error)       { return Post{}, ErrNotImplemented }
func (NullRepository) Save(post Post) (Post, error)           { return Post{}, ErrNotImplemented }
func (NullRepository) Delete(id string) error                 { return ErrNotImplemented }
func (NullRepository) List(offset, limit int) ([]Post, error) { return nil, ErrNotImplemented }

// Service exposes business operations over community posts.
type Service interface {
	Get(id string) (Post, error)
	Create(input CreateInput) (Post, error)
	Update(id string, input UpdateInput) (Post, error)
	Delete(id string) error
	List(offset, limit int) ([]Post, error)
}

// CreateInput defines data required to create a post.
type CreateInput struct {
	Title    string
	Content  string
	AuthorID string
}

// UpdateInput defines data for a partial post update. Nil fields are left
// untouched.
type UpdateInput struct {
	Title   *string
	Content *string
}

// NewService builds a post service with the given repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

type service struct {
	repo Repository
}

func (s *service) Get(id string) (Post, error) {
	return s.repo.FindByID(id)
}

func (s *service) Create(input CreateInput) (Post, error) {
	post := Post{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		AuthorID: strings.TrimSpace(input.AuthorID),
	}
	if post.Title == "" {
		return Post{}, errors.New("title is required")
	}
	if strings.TrimSpace(post.Content) == "" {
		return Post{}, errors.New("content is required")
	}
	if post.AuthorID == "" {
		return Post{}, errors.New("author_id is required")
	}
	return s.repo.Save(post)
}

func (s *service) Update(id string, input UpdateInput) (Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return Post{}, err
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}

	return s.repo.Save(post)
}

func (s *service) Delete(id string) error {
	return s.repo.Delete(id)
}

func (s *service) List(offset, limit int) ([]Post, error) {
	return s.repo.List(offset, limit)
}
