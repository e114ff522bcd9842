package answers

import (
	"errors"
	"strings"
	"time"

	"github.com/qnahub/backend/internal/domain/questions"
)

// Domain-level errors for answers.
var (
	ErrNotImplemented  = errors.New("answers repository: not implemented")
	ErrNotFound        = errors.New("answer not found")
	ErrAlreadyAnswered = errors.New("question already has an answer")
)

// Answer is the official staff response to a representative question. A
// question carries at most one answer.
type Answer struct {
	ID         string
	QuestionID string
	Content    string
	AuthorID   string
	TotalVotes int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository abstracts persistence for answers.
type Repository interface {
	FindByID(id string) (Answer, error)
	FindByQuestionID(questionID string) (Answer, error)
	Save(answer Answer) (Answer, error)
	ListNewest(offset, limit int) ([]Answer, error)

	// AdjustVotes shifts the vote total by delta, clamping at zero, and
	// returns the new total.
	AdjustVotes(id string, delta int) (int, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) FindByID(string) (Answer, error)         { return Answer{}, ErrNotImplemented }
func (NullRepository) FindByQuestionID(string) (Answer, error) { return Answer{}, ErrNotImplemented }
func (NullRepository) Save(Answer) (Answer, error)             { return Answer{}, ErrNotImplemented }
func (NullRepository) ListNewest(int, int) ([]Answer, error)   { return nil, ErrNotImplemented }
func (NullRepository) AdjustVotes(string, int) (int, error)    { return 0, ErrNotImplemented }

// QuestionAndAnswer pairs a representative question with its answer for
// joined reads.
type QuestionAndAnswer struct {
	Question questions.Representative
	Answer   Answer
}

// Service provides business logic around answers.
type Service interface {
	Get(id string) (Answer, error)
	Create(input CreateInput) (Answer, error)
	GetWithQuestion(questionID string) (QuestionAndAnswer, error)
	ListAnswered(offset, limit int) ([]QuestionAndAnswer, error)
}

// CreateInput is used to answer a representative question.
type CreateInput struct {
	QuestionID string
	Content    string
	AuthorID   string
}

// NewService builds an answer service. The question repository is consulted
// to verify targets and flip answered status.
func NewService(repo Repository, questionRepo questions.Repository) Service {
	return &service{repo: repo, questions: questionRepo}
}

type service struct {
	repo      Repository
	questions questions.Repository
}

func (s *service) Get(id string) (Answer, error) {
	return s.repo.FindByID(id)
}

func (s *service) Create(input CreateInput) (Answer, error) {
	questionID := strings.TrimSpace(input.QuestionID)
	if questionID == "" {
		return Answer{}, errors.New("question_id is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return Answer{}, errors.New("content is required")
	}

	if _, err := s.questions.FindRepresentativeByID(questionID); err != nil {
		return Answer{}, err
	}

	if _, err := s.repo.FindByQuestionID(questionID); err == nil {
		return Answer{}, ErrAlreadyAnswered
	} else if !errors.Is(err, ErrNotFound) {
		return Answer{}, err
	}

	saved, err := s.repo.Save(Answer{
		QuestionID: questionID,
		Content:    input.Content,
		AuthorID:   strings.TrimSpace(input.AuthorID),
	})
	if err != nil {
		return Answer{}, err
	}

	if err := s.questions.MarkAnswered(questionID); err != nil {
		return Answer{}, err
	}
	return saved, nil
}

func (s *service) GetWithQuestion(questionID string) (QuestionAndAnswer, error) {
	answer, err := s.repo.FindByQuestionID(questionID)
	if err != nil {
		return QuestionAndAnswer{}, err
	}

	question, err := s.questions.FindRepresentativeByID(questionID)
	if err != nil {
		// An answer pointing at a missing question means broken
		// referential integrity; surface it as a missing pair.
		if errors.Is(err, questions.ErrNotFound) {
			return QuestionAndAnswer{}, ErrNotFound
		}
		return QuestionAndAnswer{}, err
	}

	return QuestionAndAnswer{Question: question, Answer: answer}, nil
}

func (s *service) ListAnswered(offset, limit int) ([]QuestionAndAnswer, error) {
	answers, err := s.repo.ListNewest(offset, limit)
	if err != nil {
		return nil, err
	}

	pairs := make([]QuestionAndAnswer, 0, len(answers))
	for _, a := range answers {
		question, err := s.questions.FindRepresentativeByID(a.QuestionID)
		if err != nil {
			if errors.Is(err, questions.ErrNotFound) {
				continue
			}
			return nil, err
		}
		pairs = append(pairs, QuestionAndAnswer{Question: question, Answer: a})
	}
	return pairs, nil
}
