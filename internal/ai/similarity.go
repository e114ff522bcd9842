package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qnahub/backend/internal/domain/questions"
)

// similarityCandidateLimit caps how many existing questions are offered to
// the model for comparison.
const similarityCandidateLimit = 100

const similarityPromptTemplate = `You are an expert judge of semantic similarity between sentences.
Below is one new question and a list of existing questions.
Pick the single existing question whose core intent matches the new question
most closely and reply with that question's id only.

Criteria:
- The underlying intent must be nearly identical.
- If no existing question is a very close match, reply with exactly "none".

New question:
"%s"

Existing questions:
%s

Reply with one id, or "none".`

// SimilarityChecker finds the representative question closest in meaning to
// a new submission by asking the AI model to compare against recent
// questions. It implements questions.SimilarityChecker.
type SimilarityChecker struct {
	gen    TextGenerator
	repo   questions.Repository
	logger *slog.Logger
}

// NewSimilarityChecker builds a similarity checker. Accuracy matters more
// than latency here, so wire it to the pro model.
func NewSimilarityChecker(gen TextGenerator, repo questions.Repository, logger *slog.Logger) *SimilarityChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimilarityChecker{gen: gen, repo: repo, logger: logger}
}

// MostSimilar returns the closest existing representative question, or
// found=false when there is no convincing match. Errors are swallowed:
// similarity is a hint for the client, never a gate.
func (s *SimilarityChecker) MostSimilar(ctx context.Context, content string) (questions.Representative, bool) {
	existing, err := s.repo.ListRepresentative(0, similarityCandidateLimit)
	if err != nil {
		s.logger.Warn("similarity candidate listing failed", "err", err)
		return questions.Representative{}, false
	}
	if len(existing) == 0 {
		return questions.Representative{}, false
	}

	var list strings.Builder
	for _, q := range existing {
		fmt.Fprintf(&list, "- (id: %q) %s\n", q.ID, q.Title)
	}

	prompt := fmt.Sprintf(similarityPromptTemplate, content, list.String())

	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("similarity call failed", "err", err)
		return questions.Representative{}, false
	}

	answer = strings.Trim(strings.TrimSpace(answer), `"`)
	if answer == "" || strings.EqualFold(answer, "none") {
		return questions.Representative{}, false
	}

	// Only accept ids that are actually in the candidate set; the model
	// occasionally invents one.
	for _, q := range existing {
		if q.ID == answer {
			return q, true
		}
	}

	s.logger.Warn("similarity answer not in candidate set", "answer", answer)
	return questions.Representative{}, false
}

var _ questions.SimilarityChecker = (*SimilarityChecker)(nil)
