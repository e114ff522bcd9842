package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qnahub/backend/internal/ai"
	"github.com/qnahub/backend/internal/domain/questions"
)

// pendingBatchLimit bounds how many raw questions one run feeds into a
// single grouping prompt.
const pendingBatchLimit = 200

const groupingPromptTemplate = `You are an assistant analyzing the questions of the QnAHub community.
Below is a list of user-submitted questions. All of them already passed
moderation. Group the questions by shared topic and summarize each group
into one representative question capturing the group's core intent.

Rules:
1. The result must be JSON of the form
   [{"representative_question": "...", "related_questions": ["..."]}].
2. Questions on clearly different topics belong in separate groups.
3. Each related_questions entry repeats one input question verbatim.

User questions:
%s

JSON result:`

// group mirrors one element of the model's JSON reply.
type group struct {
	RepresentativeQuestion string   `json:"representative_question"`
	RelatedQuestions       []string `json:"related_questions"`
}

// Pipeline condenses pending raw questions into representative questions.
type Pipeline struct {
	repo   questions.Repository
	gen    ai.TextGenerator
	logger *slog.Logger
}

// New builds a grouping pipeline.
func New(repo questions.Repository, gen ai.TextGenerator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{repo: repo, gen: gen, logger: logger}
}

// Run executes one pipeline pass: fetch pending raw questions, ask the model
// to group and summarize them, persist the representative questions, and
// mark the consumed raws processed. A malformed model reply leaves the raws
// pending so the next run retries them.
func (p *Pipeline) Run(ctx context.Context) error {
	pending, err := p.repo.ListRawByStatus(questions.RawStatusPending, 0, pendingBatchLimit)
	if err != nil {
		return fmt.Errorf("list pending questions: %w", err)
	}
	if len(pending) == 0 {
		p.logger.Debug("pipeline: no pending questions")
		return nil
	}

	p.logger.Info("pipeline: processing pending questions", "count", len(pending))

	var contents strings.Builder
	for _, q := range pending {
		contents.WriteString("- ")
		contents.WriteString(q.Content)
		contents.WriteString("\n")
	}

	reply, err := p.gen.Generate(ctx, fmt.Sprintf(groupingPromptTemplate, contents.String()))
	if err != nil {
		return fmt.Errorf("grouping call: %w", err)
	}

	groups, err := parseGroups(reply)
	if err != nil {
		p.logger.Warn("pipeline: model reply is not valid JSON; skipping persist", "err", err)
		return nil
	}
	if len(groups) == 0 {
		p.logger.Warn("pipeline: model returned no groups; skipping persist")
		return nil
	}

	// Correlate the model's verbatim question texts back to raw ids.
	idsByContent := make(map[string][]string, len(pending))
	for _, q := range pending {
		key := normalizeContent(q.Content)
		idsByContent[key] = append(idsByContent[key], q.ID)
	}

	for _, g := range groups {
		title := strings.TrimSpace(g.RepresentativeQuestion)
		if title == "" {
			continue
		}

		var related []string
		for _, text := range g.RelatedQuestions {
			related = append(related, idsByContent[normalizeContent(text)]...)
		}

		if _, err := p.repo.SaveRepresentative(questions.Representative{
			Title:              title,
			RelatedQuestionIDs: related,
			Status:             questions.RepStatusOpen,
		}); err != nil {
			return fmt.Errorf("save representative question: %w", err)
		}
	}

	processed := make([]string, 0, len(pending))
	for _, q := range pending {
		processed = append(processed, q.ID)
	}
	if err := p.repo.UpdateRawStatus(processed, questions.RawStatusProcessed); err != nil {
		return fmt.Errorf("mark raw questions processed: %w", err)
	}

	p.logger.Info("pipeline: run complete", "groups", len(groups), "processed", len(processed))
	return nil
}

// parseGroups decodes the model's JSON reply, tolerating markdown code
// fences around the payload.
func parseGroups(reply string) ([]group, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var groups []group
	if err := json.Unmarshal([]byte(cleaned), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func normalizeContent(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
