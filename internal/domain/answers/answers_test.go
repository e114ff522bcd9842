package answers_test

import (
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/storage/memory"
)

func newOpenQuestion(t *testing.T, questionRepo *memory.QuestionRepository) questions.Representative {
	t.Helper()
	rep, err := questionRepo.SaveRepresentative(questions.Representative{
		Title:  "Will there be a certificate?",
		Status: questions.RepStatusOpen,
	})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}
	return rep
}

func TestAnswerServiceCreateMarksQuestionAnswered(t *testing.T) {
	questionRepo := memory.NewQuestionRepository()
	svc := answers.NewService(memory.NewAnswerRepository(), questionRepo)

	rep := newOpenQuestion(t, questionRepo)

	a, err := svc.Create(answers.CreateInput{
		QuestionID: rep.ID,
		Content:    "Yes, on completion of all modules.",
		AuthorID:   "staff-1",
	})
	if err != nil {
		t.Fatalf("create answer failed: %v", err)
	}
	if a.QuestionID != rep.ID {
		t.Fatalf("expected answer bound to question %s, got %s", rep.ID, a.QuestionID)
	}

	got, err := questionRepo.FindRepresentativeByID(rep.ID)
	if err != nil {
		t.Fatalf("find question failed: %v", err)
	}
	if got.Status != questions.RepStatusAnswered {
		t.Fatalf("expected question marked answered, got %s", got.Status)
	}
}

func TestAnswerServiceCreateUnknownQuestion(t *testing.T) {
	svc := answers.NewService(memory.NewAnswerRepository(), memory.NewQuestionRepository())

	_, err := svc.Create(answers.CreateInput{QuestionID: "missing", Content: "c", AuthorID: "staff"})
	if !errors.Is(err, questions.ErrNotFound) {
		t.Fatalf("expected questions.ErrNotFound, got %v", err)
	}
}

func TestAnswerServiceCreateRejectsSecondAnswer(t *testing.T) {
	questionRepo := memory.NewQuestionRepository()
	svc := answers.NewService(memory.NewAnswerRepository(), questionRepo)

	rep := newOpenQuestion(t, questionRepo)

	if _, err := svc.Create(answers.CreateInput{QuestionID: rep.ID, Content: "first", AuthorID: "staff"}); err != nil {
		t.Fatalf("first answer failed: %v", err)
	}
	_, err := svc.Create(answers.CreateInput{QuestionID: rep.ID, Content: "second", AuthorID: "staff"})
	if !errors.Is(err, answers.ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
}

func TestAnswerServiceGetWithQuestion(t *testing.T) {
	questionRepo := memory.NewQuestionRepository()
	svc := answers.NewService(memory.NewAnswerRepository(), questionRepo)

	rep := newOpenQuestion(t, questionRepo)

	created, err := svc.Create(answers.CreateInput{QuestionID: rep.ID, Content: "c", AuthorID: "staff"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pair, err := svc.GetWithQuestion(rep.ID)
	if err != nil {
		t.Fatalf("get with question failed: %v", err)
	}
	if pair.Question.ID != rep.ID {
		t.Fatalf("expected question %s, got %s", rep.ID, pair.Question.ID)
	}
	if pair.Answer.ID != created.ID {
		t.Fatalf("expected answer %s, got %s", created.ID, pair.Answer.ID)
	}
}

func TestAnswerServiceListAnsweredSkipsOrphans(t *testing.T) {
	questionRepo := memory.NewQuestionRepository()
	answerRepo := memory.NewAnswerRepository()
	svc := answers.NewService(answerRepo, questionRepo)

	rep := newOpenQuestion(t, questionRepo)
	if _, err := svc.Create(answers.CreateInput{QuestionID: rep.ID, Content: "c", AuthorID: "staff"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// An answer whose question no longer exists must not surface in the feed.
	if _, err := answerRepo.Save(answers.Answer{QuestionID: "gone", Content: "orphan", AuthorID: "staff"}); err != nil {
		t.Fatalf("save orphan failed: %v", err)
	}

	pairs, err := svc.ListAnswered(0, 10)
	if err != nil {
		t.Fatalf("list answered failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Question.ID != rep.ID {
		t.Fatalf("expected question %s, got %s", rep.ID, pairs[0].Question.ID)
	}
}
