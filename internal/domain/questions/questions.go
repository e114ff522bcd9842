package questions

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Domain-level errors for questions.
var (
	ErrNotImplemented = errors.New("questions repository: not implemented")
	ErrNotFound       = errors.New("question not found")
	ErrRejected       = errors.New("question rejected by moderation")
)

// RawStatus tracks a submitted question through the grouping pipeline.
type RawStatus string

const (
	RawStatusPending   RawStatus = "pending"
	RawStatusProcessed RawStatus = "processed"
	RawStatusRejected  RawStatus = "rejected"
)

// RepStatus tracks whether a representative question has an official answer.
type RepStatus string

const (
	RepStatusOpen     RepStatus = "open"
	RepStatusAnswered RepStatus = "answered"
)

// RawQuestion is a free-text question exactly as a user submitted it. Raw
// questions are never served directly; the pipeline condenses them into
// representative questions.
type RawQuestion struct {
	ID        string
	Content   string
	AuthorID  string
	Status    RawStatus
	CreatedAt time.Time
}

// Representative is a pipeline-generated question summarizing a group of
// similar raw questions.
type Representative struct {
	ID                 string
	Title              string
	RelatedQuestionIDs []string
	TotalVotes         int
	Status             RepStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Repository abstracts persistence for raw and representative questions.
type Repository interface {
	SaveRaw(q RawQuestion) (RawQuestion, error)
	ListRawByStatus(status RawStatus, offset, limit int) ([]RawQuestion, error)
	UpdateRawStatus(ids []string, status RawStatus) error

	SaveRepresentative(q Representative) (Representative, error)
	FindRepresentativeByID(id string) (Representative, error)
	ListRepresentative(offset, limit int) ([]Representative, error)
	MarkAnswered(id string) error

	// AdjustVotes shifts the vote total by delta, clamping at zero, and
	// returns the new total.
	AdjustVotes(id string, delta int) (int, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) SaveRaw(RawQuestion) (RawQuestion, error) {
	return RawQuestion{}, ErrNotImplemented
}

func (NullRepository) ListRawByStatus(RawStatus, int, int) ([]RawQuestion, error) {
	return nil, ErrNotImplemented
}

func (NullRepository) UpdateRawStatus([]string, RawStatus) error { return ErrNotImplemented }

func (NullRepository) SaveRepresentative(Representative) (Representative, error) {
	return Representative{}, ErrNotImplemented
}

func (NullRepository) FindRepresentativeByID(string) (Representative, error) {
	return Representative{}, ErrNotImplemented
}

func (NullRepository) ListRepresentative(int, int) ([]Representative, error) {
	return nil, ErrNotImplemented
}

func (NullRepository) MarkAnswered(string) error { return ErrNotImplemented }

func (NullRepository) AdjustVotes(string, int) (int, error) { return 0, ErrNotImplemented }

// Moderator reviews a submitted question before it is stored. A rejected
// question returns ok=false with a human-readable reason. Implementations
// fail open: moderation outages must not block submissions.
type Moderator interface {
	ReviewQuestion(ctx context.Context, content string) (ok bool, reason string)
}

// AllowAll is a Moderator that accepts every submission. Used when no AI
// backend is configured.
type AllowAll struct{}

func (AllowAll) ReviewQuestion(context.Context, string) (bool, string) { return true, "" }

// SimilarityChecker finds the existing representative question closest in
// meaning to a new submission. found=false when nothing is close enough.
type SimilarityChecker interface {
	MostSimilar(ctx context.Context, content string) (match Representative, found bool)
}

// NoSimilarity never reports a match.
type NoSimilarity struct{}

func (NoSimilarity) MostSimilar(context.Context, string) (Representative, bool) {
	return Representative{}, false
}

// Service exposes question submission and representative-question reads.
type Service interface {
	// SubmitRaw moderates and stores a raw question. When a similar
	// representative question already exists it is returned alongside so
	// the client can surface it immediately. A moderation rejection
	// returns ErrRejected wrapped with the reason.
	SubmitRaw(ctx context.Context, input SubmitInput) (RawQuestion, *Representative, error)

	GetRepresentative(id string) (Representative, error)
	ListRepresentative(offset, limit int) ([]Representative, error)
}

// SubmitInput captures a user's raw question submission.
type SubmitInput struct {
	Content  string
	AuthorID string
}

// Options configures the question service. Moderator and Similarity default
// to pass-through implementations when nil.
type Options struct {
	Repo       Repository
	Moderator  Moderator
	Similarity SimilarityChecker
}

// NewService builds a question service.
func NewService(opts Options) Service {
	repo := opts.Repo
	if repo == nil {
		repo = NullRepository{}
	}
	mod := opts.Moderator
	if mod == nil {
		mod = AllowAll{}
	}
	sim := opts.Similarity
	if sim == nil {
		sim = NoSimilarity{}
	}
	return &service{repo: repo, moderator: mod, similarity: sim}
}

type service struct {
	repo       Repository
	moderator  Moderator
	similarity SimilarityChecker
}

func (s *service) SubmitRaw(ctx context.Context, input SubmitInput) (RawQuestion, *Representative, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return RawQuestion{}, nil, errors.New("content is required")
	}
	authorID := strings.TrimSpace(input.AuthorID)
	if authorID == "" {
		return RawQuestion{}, nil, errors.New("author_id is required")
	}

	if ok, reason := s.moderator.ReviewQuestion(ctx, content); !ok {
		return RawQuestion{}, nil, &RejectionError{Reason: reason}
	}

	saved, err := s.repo.SaveRaw(RawQuestion{
		Content:  content,
		AuthorID: authorID,
		Status:   RawStatusPending,
	})
	if err != nil {
		return RawQuestion{}, nil, err
	}

	if match, found := s.similarity.MostSimilar(ctx, content); found {
		return saved, &match, nil
	}
	return saved, nil, nil
}

func (s *service) GetRepresentative(id string) (Representative, error) {
	return s.repo.FindRepresentativeByID(id)
}

func (s *service) ListRepresentative(offset, limit int) ([]Representative, error) {
	return s.repo.ListRepresentative(offset, limit)
}

// RejectionError carries the moderation reason for a refused submission.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Reason
}

func (e *RejectionError) Unwrap() error { return ErrRejected }
