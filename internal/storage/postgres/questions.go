package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qnahub/backend/internal/domain/questions"
)

// QuestionRepository persists raw and representative questions using a
// *sql.DB handle.
type QuestionRepository struct {
	db *sql.DB
}

// NewQuestionRepository returns a repository backed by a pooled DB connection.
func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// SaveRaw inserts or updates a raw question record.
func (r *QuestionRepository) SaveRaw(q questions.RawQuestion) (questions.RawQuestion, error) {
	if q.Status == "" {
		q.Status = questions.RawStatusPending
	}

	if q.ID == "" {
		const insert = `
            INSERT INTO raw_questions (content, author_id, status, created_at)
            VALUES ($1,$2,$3,$4)
            RETURNING id
        `
		now := time.Now().UTC()
		if err := r.db.QueryRow(insert, q.Content, q.AuthorID, q.Status, now).Scan(&q.ID); err != nil {
			return questions.RawQuestion{}, fmt.Errorf("insert raw question: %w", err)
		}
		q.CreatedAt = now
		return q, nil
	}

	const update = `
        UPDATE raw_questions
           SET content = $2,
               author_id = $3,
               status = $4
         WHERE id = $1
        RETURNING created_at
    `
	err := r.db.QueryRow(update, q.ID, q.Content, q.AuthorID, q.Status).Scan(&q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return questions.RawQuestion{}, questions.ErrNotFound
		}
		return questions.RawQuestion{}, fmt.Errorf("update raw question: %w", err)
	}
	return q, nil
}

// ListRawByStatus returns raw questions of a status, oldest first.
func (r *QuestionRepository) ListRawByStatus(status questions.RawStatus, offset, limit int) ([]questions.RawQuestion, error) {
	const query = `
        SELECT id, content, author_id, status, created_at
          FROM raw_questions
         WHERE status = $1
         ORDER BY created_at
         OFFSET $2
         LIMIT $3
    `

	rows, err := r.db.Query(query, status, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list raw questions: %w", err)
	}
	defer rows.Close()

	var result []questions.RawQuestion
	for rows.Next() {
		var q questions.RawQuestion
		if err := rows.Scan(&q.ID, &q.Content, &q.AuthorID, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan raw question: %w", err)
		}
		result = append(result, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// UpdateRawStatus moves raw questions to a new status one id at a time inside
// a transaction, so a partial pipeline failure rolls back cleanly.
func (r *QuestionRepository) UpdateRawStatus(ids []string, status questions.RawStatus) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	const update = `UPDATE raw_questions SET status = $2 WHERE id = $1`
	for _, id := range ids {
		if _, err := tx.Exec(update, id, status); err != nil {
			return fmt.Errorf("update raw question %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

// SaveRepresentative inserts or updates a representative question along with
// its raw-question source links.
func (r *QuestionRepository) SaveRepresentative(q questions.Representative) (questions.Representative, error) {
	now := time.Now().UTC()
	if q.Status == "" {
		q.Status = questions.RepStatusOpen
	}

	tx, err := r.db.Begin()
	if err != nil {
		return questions.Representative{}, fmt.Errorf("begin save representative: %w", err)
	}
	defer tx.Rollback()

	if q.ID == "" {
		const insert = `
            INSERT INTO representative_questions (title, total_votes, status, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id
        `
		if err := tx.QueryRow(insert, q.Title, q.TotalVotes, q.Status, now, now).Scan(&q.ID); err != nil {
			return questions.Representative{}, fmt.Errorf("insert representative question: %w", err)
		}
		q.CreatedAt = now
	} else {
		const update = `
            UPDATE representative_questions
               SET title = $2,
                   total_votes = $3,
                   status = $4,
                   updated_at = $5
             WHERE id = $1
            RETURNING created_at
        `
		err := tx.QueryRow(update, q.ID, q.Title, q.TotalVotes, q.Status, now).Scan(&q.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return questions.Representative{}, questions.ErrNotFound
			}
			return questions.Representative{}, fmt.Errorf("update representative question: %w", err)
		}

		const clear = `DELETE FROM representative_question_sources WHERE representative_id = $1`
		if _, err := tx.Exec(clear, q.ID); err != nil {
			return questions.Representative{}, fmt.Errorf("clear sources: %w", err)
		}
	}
	q.UpdatedAt = now

	const link = `
        INSERT INTO representative_question_sources (representative_id, raw_question_id)
        VALUES ($1,$2)
        ON CONFLICT DO NOTHING
    `
	for _, rawID := range q.RelatedQuestionIDs {
		if _, err := tx.Exec(link, q.ID, rawID); err != nil {
			return questions.Representative{}, fmt.Errorf("link source %s: %w", rawID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return questions.Representative{}, fmt.Errorf("commit save representative: %w", err)
	}
	return q, nil
}

// FindRepresentativeByID fetches a representative question by primary key.
func (r *QuestionRepository) FindRepresentativeByID(id string) (questions.Representative, error) {
	const query = `
        SELECT id, title, total_votes, status, created_at, updated_at
          FROM representative_questions
         WHERE id = $1
    `

	var q questions.Representative
	err := r.db.QueryRow(query, id).Scan(
		&q.ID,
		&q.Title,
		&q.TotalVotes,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return questions.Representative{}, questions.ErrNotFound
		}
		return questions.Representative{}, fmt.Errorf("find representative question: %w", err)
	}

	related, err := r.sourceIDs(q.ID)
	if err != nil {
		return questions.Representative{}, err
	}
	q.RelatedQuestionIDs = related

	return q, nil
}

// ListRepresentative returns representative questions newest first.
func (r *QuestionRepository) ListRepresentative(offset, limit int) ([]questions.Representative, error) {
	const query = `
        SELECT id, title, total_votes, status, created_at, updated_at
          FROM representative_questions
         ORDER BY created_at DESC
         OFFSET $1
         LIMIT $2
    `

	rows, err := r.db.Query(query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list representative questions: %w", err)
	}
	defer rows.Close()

	var result []questions.Representative
	for rows.Next() {
		var q questions.Representative
		if err := rows.Scan(&q.ID, &q.Title, &q.TotalVotes, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan representative question: %w", err)
		}
		result = append(result, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range result {
		related, err := r.sourceIDs(result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].RelatedQuestionIDs = related
	}

	return result, nil
}

// MarkAnswered flips a representative question to answered.
func (r *QuestionRepository) MarkAnswered(id string) error {
	const update = `
        UPDATE representative_questions
           SET status = $2,
               updated_at = $3
         WHERE id = $1
    `

	result, err := r.db.Exec(update, id, questions.RepStatusAnswered, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark answered: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark answered rows affected: %w", err)
	}
	if affected == 0 {
		return questions.ErrNotFound
	}
	return nil
}

// AdjustVotes shifts a representative question's vote total, clamping at zero.
func (r *QuestionRepository) AdjustVotes(id string, delta int) (int, error) {
	const update = `
        UPDATE representative_questions
           SET total_votes = GREATEST(total_votes + $2, 0),
               updated_at = $3
         WHERE id = $1
        RETURNING total_votes
    `

	var total int
	err := r.db.QueryRow(update, id, delta, time.Now().UTC()).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, questions.ErrNotFound
		}
		return 0, fmt.Errorf("adjust question votes: %w", err)
	}
	return total, nil
}

func (r *QuestionRepository) sourceIDs(representativeID string) ([]string, error) {
	const query = `
        SELECT raw_question_id
          FROM representative_question_sources
         WHERE representative_id = $1
         ORDER BY raw_question_id
    `

	rows, err := r.db.Query(query, representativeID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan source id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return ids, nil
}
