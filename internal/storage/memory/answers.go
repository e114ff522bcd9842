package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/qnahub/backend/internal/domain/answers"
)

// AnswerRepository is an in-memory implementation of answers.Repository.
type AnswerRepository struct {
	mu         sync.RWMutex
	answers    map[string]answers.Answer
	byQuestion map[string]string
}

// NewAnswerRepository returns an initialized in-memory repository.
func NewAnswerRepository() *AnswerRepository {
	return &AnswerRepository{
		answers:    make(map[string]answers.Answer),
		byQuestion: make(map[string]string),
	}
}

// FindByID returns an answer by identifier.
func (r *AnswerRepository) FindByID(id string) (answers.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.answers[id]
	if !ok {
		return answers.Answer{}, answers.ErrNotFound
	}
	return a, nil
}

// FindByQuestionID returns the answer attached to a question.
func (r *AnswerRepository) FindByQuestionID(questionID string) (answers.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byQuestion[questionID]
	if !ok {
		return answers.Answer{}, answers.ErrNotFound
	}
	return r.answers[id], nil
}

// Save inserts or updates an answer record.
func (r *AnswerRepository) Save(answer answers.Answer) (answers.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if answer.ID == "" {
		answer.ID = newID()
		answer.CreatedAt = now
	} else {
		existing, ok := r.answers[answer.ID]
		if ok && answer.CreatedAt.IsZero() {
			answer.CreatedAt = existing.CreatedAt
		}
	}
	answer.UpdatedAt = now
	r.answers[answer.ID] = answer
	r.byQuestion[answer.QuestionID] = answer.ID
	return answer, nil
}

// ListNewest returns answers ordered by creation date, newest first.
func (r *AnswerRepository) ListNewest(offset, limit int) ([]answers.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]answers.Answer, 0, len(r.answers))
	for _, a := range r.answers {
		list = append(list, a)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return paginate(list, offset, limit), nil
}

// AdjustVotes shifts an answer's vote total, clamping at zero.
func (r *AnswerRepository) AdjustVotes(id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.answers[id]
	if !ok {
		return 0, answers.ErrNotFound
	}
	a.TotalVotes += delta
	if a.TotalVotes < 0 {
		a.TotalVotes = 0
	}
	a.UpdatedAt = time.Now().UTC()
	r.answers[id] = a
	return a.TotalVotes, nil
}
