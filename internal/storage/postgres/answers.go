package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qnahub/backend/internal/domain/answers"
)

// AnswerRepository persists answers using a *sql.DB handle.
type AnswerRepository struct {
	db *sql.DB
}

// NewAnswerRepository returns a repository backed by a pooled DB connection.
func NewAnswerRepository(db *sql.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

const answerColumns = `id, question_id, content, author_id, total_votes, created_at, updated_at`

// FindByID fetches an answer by primary key.
func (r *AnswerRepository) FindByID(id string) (answers.Answer, error) {
	const query = `
        SELECT ` + answerColumns + `
          FROM answers
         WHERE id = $1
    `
	return r.scanOne(r.db.QueryRow(query, id), "find answer")
}

// FindByQuestionID fetches the answer attached to a representative question.
func (r *AnswerRepository) FindByQuestionID(questionID string) (answers.Answer, error) {
	const query = `
        SELECT ` + answerColumns + `
          FROM answers
         WHERE question_id = $1
    `
	return r.scanOne(r.db.QueryRow(query, questionID), "find answer by question")
}

// Save inserts or updates an answer record.
func (r *AnswerRepository) Save(answer answers.Answer) (answers.Answer, error) {
	now := time.Now().UTC()

	if answer.ID == "" {
		const insert = `
            INSERT INTO answers (question_id, content, author_id, total_votes, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			answer.QuestionID,
			answer.Content,
			answer.AuthorID,
			answer.TotalVotes,
			now,
			now,
		).Scan(&answer.ID); err != nil {
			return answers.Answer{}, fmt.Errorf("insert answer: %w", err)
		}
		answer.CreatedAt = now
		answer.UpdatedAt = now
		return answer, nil
	}

	const update = `
        UPDATE answers
           SET question_id = $2,
               content = $3,
               author_id = $4,
               total_votes = $5,
               updated_at = $6
         WHERE id = $1
        RETURNING created_at
    `

	var created time.Time
	err := r.db.QueryRow(update,
		answer.ID,
		answer.QuestionID,
		answer.Content,
		answer.AuthorID,
		answer.TotalVotes,
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return answers.Answer{}, answers.ErrNotFound
		}
		return answers.Answer{}, fmt.Errorf("update answer: %w", err)
	}

	answer.CreatedAt = created
	answer.UpdatedAt = now
	return answer, nil
}

// ListNewest returns answers ordered by creation date, newest first.
func (r *AnswerRepository) ListNewest(offset, limit int) ([]answers.Answer, error) {
	const query = `
        SELECT ` + answerColumns + `
          FROM answers
         ORDER BY created_at DESC
         OFFSET $1
         LIMIT $2
    `

	rows, err := r.db.Query(query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var result []answers.Answer
	for rows.Next() {
		var a answers.Answer
		if err := rows.Scan(
			&a.ID,
			&a.QuestionID,
			&a.Content,
			&a.AuthorID,
			&a.TotalVotes,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// AdjustVotes shifts an answer's vote total, clamping at zero.
func (r *AnswerRepository) AdjustVotes(id string, delta int) (int, error) {
	const update = `
        UPDATE answers
           SET total_votes = GREATEST(total_votes + $2, 0),
               updated_at = $3
         WHERE id = $1
        RETURNING total_votes
    `

	var total int
	err := r.db.QueryRow(update, id, delta, time.Now().UTC()).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, answers.ErrNotFound
		}
		return 0, fmt.Errorf("adjust answer votes: %w", err)
	}
	return total, nil
}

func (r *AnswerRepository) scanOne(row *sql.Row, op string) (answers.Answer, error) {
	var a answers.Answer
	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.Content,
		&a.AuthorID,
		&a.TotalVotes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return answers.Answer{}, answers.ErrNotFound
		}
		return answers.Answer{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
