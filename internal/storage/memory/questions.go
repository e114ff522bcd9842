package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/qnahub/backend/internal/domain/questions"
)

// QuestionRepository is an in-memory implementation of questions.Repository.
type QuestionRepository struct {
	mu              sync.RWMutex
	raw             map[string]questions.RawQuestion
	representatives map[string]questions.Representative
}

// NewQuestionRepository returns an initialized in-memory repository.
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{
		raw:             make(map[string]questions.RawQuestion),
		representatives: make(map[string]questions.Representative),
	}
}

// SaveRaw inserts or updates a raw question record.
func (r *QuestionRepository) SaveRaw(q questions.RawQuestion) (questions.RawQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q.ID == "" {
		q.ID = newID()
		q.CreatedAt = time.Now().UTC()
	}
	if q.Status == "" {
		q.Status = questions.RawStatusPending
	}
	r.raw[q.ID] = q
	return q, nil
}

// ListRawByStatus returns raw questions of the given status, oldest first so
// the pipeline processes submissions in arrival order.
func (r *QuestionRepository) ListRawByStatus(status questions.RawStatus, offset, limit int) ([]questions.RawQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []questions.RawQuestion
	for _, q := range r.raw {
		if q.Status == status {
			list = append(list, q)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return paginate(list, offset, limit), nil
}

// UpdateRawStatus moves the given raw questions to a new status.
func (r *QuestionRepository) UpdateRawStatus(ids []string, status questions.RawStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		q, ok := r.raw[id]
		if !ok {
			continue
		}
		q.Status = status
		r.raw[id] = q
	}
	return nil
}

// SaveRepresentative inserts or updates a representative question.
func (r *QuestionRepository) SaveRepresentative(q questions.Representative) (questions.Representative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if q.ID == "" {
		q.ID = newID()
		q.CreatedAt = now
	} else {
		existing, ok := r.representatives[q.ID]
		if ok && q.CreatedAt.IsZero() {
			q.CreatedAt = existing.CreatedAt
		}
	}
	if q.Status == "" {
		q.Status = questions.RepStatusOpen
	}
	q.UpdatedAt = now
	r.representatives[q.ID] = q
	return q, nil
}

// FindRepresentativeByID returns a representative question by identifier.
func (r *QuestionRepository) FindRepresentativeByID(id string) (questions.Representative, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.representatives[id]
	if !ok {
		return questions.Representative{}, questions.ErrNotFound
	}
	return q, nil
}

// ListRepresentative returns representative questions newest first.
func (r *QuestionRepository) ListRepresentative(offset, limit int) ([]questions.Representative, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]questions.Representative, 0, len(r.representatives))
	for _, q := range r.representatives {
		list = append(list, q)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return paginate(list, offset, limit), nil
}

// MarkAnswered flips a representative question to answered.
func (r *QuestionRepository) MarkAnswered(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.representatives[id]
	if !ok {
		return questions.ErrNotFound
	}
	q.Status = questions.RepStatusAnswered
	q.UpdatedAt = time.Now().UTC()
	r.representatives[id] = q
	return nil
}

// AdjustVotes shifts a representative question's vote total, clamping at zero.
func (r *QuestionRepository) AdjustVotes(id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.representatives[id]
	if !ok {
		return 0, questions.ErrNotFound
	}
	q.TotalVotes += delta
	if q.TotalVotes < 0 {
		q.TotalVotes = 0
	}
	q.UpdatedAt = time.Now().UTC()
	r.representatives[id] = q
	return q.TotalVotes, nil
}
