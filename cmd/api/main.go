package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/qnahub/backend/internal/ai"
	"github.com/qnahub/backend/internal/config"
	"github.com/qnahub/backend/internal/database"
	"github.com/qnahub/backend/internal/domain"
	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/posts"
	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/domain/users"
	"github.com/qnahub/backend/internal/domain/votes"
	"github.com/qnahub/backend/internal/httpapi"
	"github.com/qnahub/backend/internal/logger"
	"github.com/qnahub/backend/internal/pipeline"
	"github.com/qnahub/backend/internal/server"
	"github.com/qnahub/backend/internal/storage/memory"
	pgstorage "github.com/qnahub/backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logr := logger.New(cfg.Env)

	baseCtx := context.Background()

	var db *database.DB
	if cfg.DataBackend == "postgres" {
		db, err = database.Connect(baseCtx, database.Options{
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
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logr.Error("error closing database", "err", cerr)
			}
		}()

		migrator := database.NewSQLMigrator(db.DB, database.MigrationsFS(), database.MigrationsPath, logr)
		if err := db.RunMigrations(baseCtx, migrator); err != nil {
			logr.Error("database migrations failed", "err", err)
			os.Exit(1)
		}
	}

	repos, err := buildRepositories(cfg, logr, db)
	if err != nil {
		logr.Error("failed to init repositories", "err", err)
		os.Exit(1)
	}

	var gen *ai.GeminiGenerator
	if cfg.AIEnabled() {
		gen, err = ai.NewGeminiGenerator(baseCtx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			logr.Error("failed to init gemini client", "err", err)
			os.Exit(1)
		}
		defer gen.Close()
	} else {
		logr.Warn("GOOGLE_API_KEY not set; moderation passes through and the grouping pipeline stays idle")
	}

	domainOpts := domain.Options{
		PostRepo:     repos.posts,
		QuestionRepo: repos.questions,
		AnswerRepo:   repos.answers,
		VoteRepo:     repos.votes,
		UserRepo:     repos.users,
	}
	if gen != nil {
		domainOpts.Moderator = ai.NewModerator(gen, logr)
		domainOpts.Similarity = ai.NewSimilarityChecker(gen.WithModel(cfg.GeminiProModel), repos.questions, logr)
	}
	domainContainer := domain.New(domainOpts)

	srv := server.New(cfg, logr)

	httpapi.Register(srv.Router(), logr, domainContainer, httpapi.Options{
		SessionTTL: cfg.SessionCookieTTL,
	})

	var sched *pipeline.Scheduler
	if gen != nil {
		sched = pipeline.NewScheduler(pipeline.New(repos.questions, gen, logr), logr)
		if err := sched.Start(cfg.PipelineSchedule); err != nil {
			logr.Error("failed to start pipeline scheduler", "err", err)
			os.Exit(1)
		}
		if cfg.PipelineRunOnStart {
			sched.RunNow()
		}
	}

	go func() {
		if err := srv.Run(); err != nil {
			logr.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server shutdown failed", "err", err)
		os.Exit(1)
	}
}

// repositories groups one backend's repository set.
type repositories struct {
	posts     posts.Repository
	questions questions.Repository
	answers   answers.Repository
	votes     votes.Repository
	users     users.Repository
}

func buildRepositories(cfg config.Config, logr *slog.Logger, db *database.DB) (repositories, error) {
	switch cfg.DataBackend {
	case "memory":
		logr.Info("using in-memory repositories (DATA_BACKEND=memory)")
		return repositories{
			posts:     memory.NewPostRepository(),
			questions: memory.NewQuestionRepository(),
			answers:   memory.NewAnswerRepository(),
			votes:     memory.NewVoteRepository(),
			users:     memory.NewUserRepository(),
		}, nil
	case "postgres":
		if db == nil {
			return repositories{}, fmt.Errorf("postgres backend requires database connection")
		}
		logr.Info("using postgres repositories (DATA_BACKEND=postgres)")
		sqlDB := db.DB
		return repositories{
			posts:     pgstorage.NewPostRepository(sqlDB),
			questions: pgstorage.NewQuestionRepository(sqlDB),
			answers:   pgstorage.NewAnswerRepository(sqlDB),
			votes:     pgstorage.NewVoteRepository(sqlDB),
			users:     pgstorage.NewUserRepository(sqlDB),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
