package votes

import (
	"errors"
	"time"
)

// Domain-level errors for votes.
var (
	ErrNotImplemented = errors.New("votes repository: not implemented")
	ErrAlreadyLiked   = errors.New("session already liked this target")
	ErrNotLiked       = errors.New("session has not liked this target")
)

// Kind distinguishes what a vote points at.
type Kind string

const (
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

// Vote records one anonymous like, scoped to a browser session. The
// (SessionID, Kind, TargetID) triple is unique.
type Vote struct {
	SessionID string
	Kind      Kind
	TargetID  string
	IPAddress string
	CreatedAt time.Time
}

// Repository abstracts persistence for vote records.
type Repository interface {
	// Create stores a vote, returning ErrAlreadyLiked when the session
	// already voted on the target.
	Create(vote Vote) error
	// Delete removes a vote, returning ErrNotLiked when none exists.
	Delete(sessionID string, kind Kind, targetID string) error
	Exists(sessionID string, kind Kind, targetID string) (bool, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) Create(Vote) error                         { return ErrNotImplemented }
func (NullRepository) Delete(string, Kind, string) error         { return ErrNotImplemented }
func (NullRepository) Exists(string, Kind, string) (bool, error) { return false, ErrNotImplemented }

// Counter adjusts the denormalized vote total kept on the voted target.
// Implemented by the question and answer repositories.
type Counter interface {
	AdjustVotes(id string, delta int) (int, error)
}

// Service provides duplicate-guarded like handling.
type Service interface {
	// Like records a vote and bumps the target's total, returning the new
	// total. Duplicate votes return ErrAlreadyLiked.
	Like(sessionID string, kind Kind, targetID, ipAddress string) (int, error)
	// Unlike removes a vote and decrements the target's total, returning
	// the new total. Missing votes return ErrNotLiked.
	Unlike(sessionID string, kind Kind, targetID string) (int, error)
	// Liked reports whether the session has an active vote on the target.
	Liked(sessionID string, kind Kind, targetID string) (bool, error)
}

// Options wires the vote service to its repository and the per-kind counters.
type Options struct {
	Repo            Repository
	QuestionCounter Counter
	AnswerCounter   Counter
}

// NewService builds a vote service.
func NewService(opts Options) Service {
	repo := opts.Repo
	if repo == nil {
		repo = NullRepository{}
	}
	return &service{
		repo:     repo,
		counters: map[Kind]Counter{KindQuestion: opts.QuestionCounter, KindAnswer: opts.AnswerCounter},
	}
}

type service struct {
	repo     Repository
	counters map[Kind]Counter
}

func (s *service) Like(sessionID string, kind Kind, targetID, ipAddress string) (int, error) {
	counter, err := s.counter(kind)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Create(Vote{
		SessionID: sessionID,
		Kind:      kind,
		TargetID:  targetID,
		IPAddress: ipAddress,
	}); err != nil {
		return 0, err
	}

	return counter.AdjustVotes(targetID, 1)
}

func (s *service) Unlike(sessionID string, kind Kind, targetID string) (int, error) {
	counter, err := s.counter(kind)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(sessionID, kind, targetID); err != nil {
		return 0, err
	}

	return counter.AdjustVotes(targetID, -1)
}

func (s *service) Liked(sessionID string, kind Kind, targetID string) (bool, error) {
	return s.repo.Exists(sessionID, kind, targetID)
}

func (s *service) counter(kind Kind) (Counter, error) {
	counter, ok := s.counters[kind]
	if !ok || counter == nil {
		return nil, errors.New("no counter configured for kind: " + string(kind))
	}
	return counter, nil
}
