package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/pipeline"
	"github.com/qnahub/backend/internal/storage/memory"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (g *fakeGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func submit(t *testing.T, repo *memory.QuestionRepository, content string) questions.RawQuestion {
	t.Helper()
	q, err := repo.SaveRaw(questions.RawQuestion{Content: content, AuthorID: "user-1"})
	if err != nil {
		t.Fatalf("save raw failed: %v", err)
	}
	return q
}

func TestPipelineGroupsPendingQuestions(t *testing.T) {
	repo := memory.NewQuestionRepository()
	a := submit(t, repo, "The lecture videos keep buffering")
	b := submit(t, repo, "Video quality is really low")
	c := submit(t, repo, "When is the internship announced?")

	gen := &fakeGenerator{reply: fmt.Sprintf(`[
		{"representative_question": "Are there plans to improve video playback?",
		 "related_questions": [%q, %q]},
		{"representative_question": "When will the internship program be announced?",
		 "related_questions": [%q]}
	]`, a.Content, b.Content, c.Content)}

	p := pipeline.New(repo, gen, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	reps, err := repo.ListRepresentative(0, 10)
	if err != nil {
		t.Fatalf("list representative failed: %v", err)
	}
	if len(reps) != 2 {
		t.Fatalf("expected 2 representative questions, got %d", len(reps))
	}

	var playback questions.Representative
	for _, r := range reps {
		if r.Title == "Are there plans to improve video playback?" {
			playback = r
		}
	}
	if len(playback.RelatedQuestionIDs) != 2 {
		t.Fatalf("expected 2 related raw ids, got %v", playback.RelatedQuestionIDs)
	}

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected all raws processed, %d still pending", len(pending))
	}
}

func TestPipelineToleratesCodeFences(t *testing.T) {
	repo := memory.NewQuestionRepository()
	q := submit(t, repo, "Is there a refund policy?")

	gen := &fakeGenerator{reply: fmt.Sprintf("```json\n[{\"representative_question\": \"What is the refund policy?\", \"related_questions\": [%q]}]\n```", q.Content)}

	p := pipeline.New(repo, gen, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	reps, err := repo.ListRepresentative(0, 10)
	if err != nil {
		t.Fatalf("list representative failed: %v", err)
	}
	if len(reps) != 1 {
		t.Fatalf("expected 1 representative question, got %d", len(reps))
	}
	if got := reps[0].Title; got != "What is the refund policy?" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestPipelineMalformedReplyLeavesRawsPending(t *testing.T) {
	repo := memory.NewQuestionRepository()
	submit(t, repo, "Is there a refund policy?")

	gen := &fakeGenerator{reply: "I could not produce JSON, sorry."}

	p := pipeline.New(repo, gen, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run must not fail on malformed reply: %v", err)
	}

	reps, err := repo.ListRepresentative(0, 10)
	if err != nil {
		t.Fatalf("list representative failed: %v", err)
	}
	if len(reps) != 0 {
		t.Fatalf("expected no representative questions, got %d", len(reps))
	}

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected raw question kept pending for retry, got %d", len(pending))
	}
}

func TestPipelineGenerateErrorPropagates(t *testing.T) {
	repo := memory.NewQuestionRepository()
	submit(t, repo, "anything")

	genErr := errors.New("model unavailable")
	p := pipeline.New(repo, &fakeGenerator{err: genErr}, nil)

	if err := p.Run(context.Background()); !errors.Is(err, genErr) {
		t.Fatalf("expected generate error, got %v", err)
	}
}

type slowGenerator struct {
	reply string
	delay time.Duration
}

func (g *slowGenerator) Generate(context.Context, string) (string, error) {
	time.Sleep(g.delay)
	return g.reply, nil
}

func TestSchedulerStopWaitsForManualRun(t *testing.T) {
	repo := memory.NewQuestionRepository()
	q := submit(t, repo, "Is there a refund policy?")

	gen := &slowGenerator{
		reply: fmt.Sprintf(`[{"representative_question": "What is the refund policy?", "related_questions": [%q]}]`, q.Content),
		delay: 100 * time.Millisecond,
	}

	s := pipeline.NewScheduler(pipeline.New(repo, gen, nil), nil)
	s.RunNow()
	s.Stop()

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("stop returned before the manual run finished, %d raws still pending", len(pending))
	}
}

func TestPipelineNoPendingSkipsModel(t *testing.T) {
	gen := &fakeGenerator{}
	p := pipeline.New(memory.NewQuestionRepository(), gen, nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no model call with nothing pending, got %d", gen.calls)
	}
}
