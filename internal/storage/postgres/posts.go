package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qnahub/backend/internal/domain/posts"
)

// PostRepository persists community posts using a *sql.DB handle.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository returns a repository backed by a pooled DB connection.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// FindByID fetches a post by primary key.
func (r *PostRepository) FindByID(id string) (posts.Post, error) {
	const query = `
        SELECT id, title, content, author_id, likes, created_at, updated_at
          FROM community_posts
         WHERE id = $1
    `

	var p posts.Post
	err := r.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.AuthorID,
		&p.Likes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posts.Post{}, posts.ErrNotFound
		}
		return posts.Post{}, fmt.Errorf("find post: %w", err)
	}

	return p, nil
}

// Save inserts or updates a post record.
func (r *PostRepository) Save(post posts.Post) (posts.Post, error) {
	now := time.Now().UTC()

	if post.ID == "" {
		const insert = `
            INSERT INTO community_posts (title, content, author_id, likes, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			post.Title,
			post.Content,
			post.AuthorID,
			post.Likes,
			now,
			now,
		).Scan(&post.ID); err != nil {
			return posts.Post{}, fmt.Errorf("insert post: %w", err)
		}
		post.CreatedAt = now
		post.UpdatedAt = now
		return post, nil
	}

	const update = `
        UPDATE community_posts
           SET title = $2,
               content = $3,
               author_id = $4,
               likes = $5,
               updated_at = $6
         WHERE id = $1
        RETURNING created_at
    `

	var created time.Time
	err := r.db.QueryRow(update,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		post.Likes,
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posts.Post{}, posts.ErrNotFound
		}
		return posts.Post{}, fmt.Errorf("update post: %w", err)
	}

	post.CreatedAt = created
	post.UpdatedAt = now
	return post, nil
}

// Delete removes a post by primary key.
func (r *PostRepository) Delete(id string) error {
	const query = `DELETE FROM community_posts WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// List returns posts ordered newest first.
func (r *PostRepository) List(offset, limit int) ([]posts.Post, error) {
	const query = `
        SELECT id, title, content, author_id, likes, created_at, updated_at
          FROM community_posts
         ORDER BY created_at DESC
         OFFSET $1
         LIMIT $2
    `

	rows, err := r.db.Query(query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var result []posts.Post
	for rows.Next() {
		var p posts.Post
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.AuthorID,
			&p.Likes,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
