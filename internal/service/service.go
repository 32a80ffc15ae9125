package service

import (
	"quickpolls/internal/repository"
)

type Services struct {
	User    *UserService
	Poll    *PollService
	Comment *CommentService
	Results *ResultsManager
}

func NewServices(repos *repository.Repositories) *Services {
	resultsManager := NewResultsManager()

	userService := NewUserService(repos.User, repos.Poll)
	pollService := NewPollService(repos.Poll, resultsManager)
	commentService := NewCommentService(repos.Comment, repos.Poll)
	return &Services{
		User:    userService,
		Poll:    pollService,
		Comment: commentService,
		Results: resultsManager,
	}
}
