package main

import (
	"context"
	"fmt"
	"os"

	"github.com/qnahub/backend/internal/config"
	"github.com/qnahub/backend/internal/database"
	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/posts"
	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/logger"
	pgstorage "github.com/qnahub/backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("development").Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logr := logger.New(cfg.Env)

	if cfg.DataBackend != "postgres" {
		logr.Error("seed command requires DATA_BACKEND=postgres")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, database.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		Logger:          logr,
	})
	if err != nil {
		logr.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := database.NewSQLMigrator(db.DB, database.MigrationsFS(), database.MigrationsPath, logr)
	if err := db.RunMigrations(ctx, migrator); err != nil {
		logr.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	postRepo := pgstorage.NewPostRepository(db.DB)
	questionRepo := pgstorage.NewQuestionRepository(db.DB)
	answerRepo := pgstorage.NewAnswerRepository(db.DB)

	samplePosts := []posts.Post{
		{Title: "Welcome to QnAHub", Content: "Introduce yourself and tell us what you are working on.", AuthorID: "staff-1"},
		{Title: "Study group for the backend track", Content: "Looking for two or three people to review lectures together every week.", AuthorID: "user-7"},
	}
	for _, p := range samplePosts {
		saved, err := postRepo.Save(p)
		if err != nil {
			logr.Error("failed to seed post", "title", p.Title, "err", err)
			os.Exit(1)
		}
		logr.Info("seeded post", "post_id", saved.ID)
	}

	sampleRaw := []questions.RawQuestion{
		{Content: "The lecture videos keep buffering for me, is a fix planned?", AuthorID: "user-1"},
		{Content: "Video quality on the VOD player seems really low lately.", AuthorID: "user-2"},
		{Content: "When will the internship program be announced?", AuthorID: "user-3"},
	}
	createdRaw := make([]questions.RawQuestion, 0, len(sampleRaw))
	for _, q := range sampleRaw {
		saved, err := questionRepo.SaveRaw(q)
		if err != nil {
			logr.Error("failed to seed raw question", "err", err)
			os.Exit(1)
		}
		createdRaw = append(createdRaw, saved)
	}

	// One already-grouped question with an official answer, so the answered
	// feed has content right after seeding.
	rep, err := questionRepo.SaveRepresentative(questions.Representative{
		Title:              "Are there plans to improve lecture video quality?",
		RelatedQuestionIDs: []string{createdRaw[0].ID, createdRaw[1].ID},
		Status:             questions.RepStatusOpen,
	})
	if err != nil {
		logr.Error("failed to seed representative question", "err", err)
		os.Exit(1)
	}
	if err := questionRepo.UpdateRawStatus([]string{createdRaw[0].ID, createdRaw[1].ID}, questions.RawStatusProcessed); err != nil {
		logr.Error("failed to mark raw questions processed", "err", err)
		os.Exit(1)
	}

	answer, err := answerRepo.Save(answers.Answer{
		QuestionID: rep.ID,
		Content:    "A player upgrade with higher bitrate streams rolls out next month.",
		AuthorID:   "staff-1",
	})
	if err != nil {
		logr.Error("failed to seed answer", "err", err)
		os.Exit(1)
	}
	if err := questionRepo.MarkAnswered(rep.ID); err != nil {
		logr.Error("failed to mark question answered", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Representative question: %s (%s)\n", rep.Title, rep.ID)
	fmt.Printf("Answer: %s (%s)\n", answer.ID, answer.QuestionID)

	logr.Info("seed complete")
}
