package domain

import (
	"github.com/qnahub/backend/internal/domain/answers"
	"github.com/qnahub/backend/internal/domain/posts"
	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/domain/users"
	"github.com/qnahub/backend/internal/domain/votes"
)

// Container wires domain services together on top of whichever repository
// implementations the data backend selected.
type Container struct {
	Posts     posts.Service
	Questions questions.Service
	Answers   answers.Service
	Votes     votes.Service
	Users     users.Service
}

// Options configures the domain container. Moderator and Similarity are
// optional; without them question submissions pass moderation untouched.
type Options struct {
	PostRepo     posts.Repository
	QuestionRepo questions.Repository
	AnswerRepo   answers.Repository
	VoteRepo     votes.Repository
	UserRepo     users.Repository

	Moderator  questions.Moderator
	Similarity questions.SimilarityChecker
}

// New constructs a domain container with provided repositories.
func New(opts Options) Container {
	postRepo := opts.PostRepo
	if postRepo == nil {
		postRepo = posts.NullRepository{}
	}

	questionRepo := opts.QuestionRepo
	if questionRepo == nil {
		questionRepo = questions.NullRepository{}
	}

	answerRepo := opts.AnswerRepo
	if answerRepo == nil {
		answerRepo = answers.NullRepository{}
	}

	voteRepo := opts.VoteRepo
	if voteRepo == nil {
		voteRepo = votes.NullRepository{}
	}

	userRepo := opts.UserRepo
	if userRepo == nil {
		userRepo = users.NullRepository{}
	}

	return Container{
		Posts: posts.NewService(postRepo),
		Questions: questions.NewService(questions.Options{
			Repo:       questionRepo,
			Moderator:  opts.Moderator,
			Similarity: opts.Similarity,
		}),
		Answers: answers.NewService(answerRepo, questionRepo),
		Votes: votes.NewService(votes.Options{
			Repo:            voteRepo,
			QuestionCounter: questionRepo,
			AnswerCounter:   answerRepo,
		}),
		Users: users.NewService(userRepo),
	}
}
