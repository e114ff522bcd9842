package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/qnahub/backend/internal/domain/votes"
)

// VoteRepository persists session votes using a *sql.DB handle. The table
// carries a primary key over (session_id, target_kind, target_id) so the
// duplicate guard is enforced by the database.
type VoteRepository struct {
	db *sql.DB
}

// NewVoteRepository returns a repository backed by a pooled DB connection.
func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create stores a vote, rejecting duplicates for the same session and target.
func (r *VoteRepository) Create(vote votes.Vote) error {
	const insert = `
        INSERT INTO votes (session_id, target_kind, target_id, ip_address, created_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (session_id, target_kind, target_id) DO NOTHING
    `

	createdAt := vote.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.Exec(insert, vote.SessionID, vote.Kind, vote.TargetID, vote.IPAddress, createdAt)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert vote rows affected: %w", err)
	}
	if affected == 0 {
		return votes.ErrAlreadyLiked
	}
	return nil
}

// Delete removes a vote if the session has one on the target.
func (r *VoteRepository) Delete(sessionID string, kind votes.Kind, targetID string) error {
	const del = `
        DELETE FROM votes
         WHERE session_id = $1 AND target_kind = $2 AND target_id = $3
    `

	result, err := r.db.Exec(del, sessionID, kind, targetID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vote rows affected: %w", err)
	}
	if affected == 0 {
		return votes.ErrNotLiked
	}
	return nil
}

// Exists reports whether the session has an active vote on the target.
func (r *VoteRepository) Exists(sessionID string, kind votes.Kind, targetID string) (bool, error) {
	const query = `
        SELECT 1
          FROM votes
         WHERE session_id = $1 AND target_kind = $2 AND target_id = $3
    `

	var one int
	err := r.db.QueryRow(query, sessionID, kind, targetID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check vote: %w", err)
	}
	return true, nil
}
