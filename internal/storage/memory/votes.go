package memory

import (
	"sync"
	"time"

	"github.com/qnahub/backend/internal/domain/votes"
)

type voteKey struct {
	sessionID string
	kind      votes.Kind
	targetID  string
}

// VoteRepository is an in-memory implementation of votes.Repository.
type VoteRepository struct {
	mu    sync.RWMutex
	votes map[voteKey]votes.Vote
}

// NewVoteRepository returns an initialized in-memory repository.
func NewVoteRepository() *VoteRepository {
	return &VoteRepository{
		votes: make(map[voteKey]votes.Vote),
	}
}

// Create stores a vote, rejecting duplicates for the same session and target.
func (r *VoteRepository) Create(vote votes.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey{sessionID: vote.SessionID, kind: vote.Kind, targetID: vote.TargetID}
	if _, ok := r.votes[key]; ok {
		return votes.ErrAlreadyLiked
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	r.votes[key] = vote
	return nil
}

// Delete removes a vote if the session has one on the target.
func (r *VoteRepository) Delete(sessionID string, kind votes.Kind, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey{sessionID: sessionID, kind: kind, targetID: targetID}
	if _, ok := r.votes[key]; !ok {
		return votes.ErrNotLiked
	}
	delete(r.votes, key)
	return nil
}

// Exists reports whether the session has an active vote on the target.
func (r *VoteRepository) Exists(sessionID string, kind votes.Kind, targetID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.votes[voteKey{sessionID: sessionID, kind: kind, targetID: targetID}]
	return ok, nil
}
