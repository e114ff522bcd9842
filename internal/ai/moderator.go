package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qnahub/backend/internal/domain/questions"
)

const moderationPromptTemplate = `You are the strict moderator of the QnAHub community.
Decide whether the following user-submitted question is worth publishing.

Rules - the question is unfit if any of these apply:
- It is a bare emotional statement (e.g. "nice", "I'm bored").
- It is personal chatter unrelated to the community (e.g. "what's for dinner?").
- It contains insults, slander, advertising, or other abuse.
- It is gibberish or its meaning cannot be determined.

User question:
"%s"

Answer with exactly one line. Start with "fit" if the question should be
published. Start with "unfit." followed by a one-sentence reason otherwise.
Example: unfit. This is a bare emotional statement.`

// Moderator reviews question submissions with the AI model. It implements
// questions.Moderator and fails open: an unreachable or confused model never
// blocks a submission.
type Moderator struct {
	gen    TextGenerator
	logger *slog.Logger
}

// NewModerator builds a moderator on top of a text generator.
func NewModerator(gen TextGenerator, logger *slog.Logger) *Moderator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Moderator{gen: gen, logger: logger}
}

// ReviewQuestion asks the model for a fit/unfit verdict on the content.
func (m *Moderator) ReviewQuestion(ctx context.Context, content string) (bool, string) {
	prompt := fmt.Sprintf(moderationPromptTemplate, content)

	verdict, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		m.logger.Warn("moderation call failed; accepting submission", "err", err)
		return true, ""
	}

	lowered := strings.ToLower(verdict)
	switch {
	case strings.HasPrefix(lowered, "fit"):
		return true, ""
	case strings.HasPrefix(lowered, "unfit"):
		reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(verdict[len("unfit"):], "."), ":"))
		return false, reason
	default:
		// The model answered off-script; accept rather than block users.
		m.logger.Warn("unrecognized moderation verdict; accepting submission", "verdict", verdict)
		return true, ""
	}
}

var _ questions.Moderator = (*Moderator)(nil)
