package repository

import "quickpolls/internal/storage"

type Repositories struct {
	User    UserRepository
	Poll    PollRepository
	Comment CommentRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Poll:    NewPollRepository(db),
		Comment: NewCommentRepository(db),
	}
}
