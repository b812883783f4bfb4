package repositories

import (
	"github.com/ecavus/collegia/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	CollegeRepository *CollegeRepository
	CourseRepository  *CourseRepository
	NoteRepository    *NoteRepository
	PaperRepository   *PaperRepository
	MessageRepository *MessageRepository
	TokenRepository   *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:    NewUserRepository(pool),
		CollegeRepository: NewCollegeRepository(pool),
		CourseRepository:  NewCourseRepository(database),
		NoteRepository:    NewNoteRepository(pool),
		PaperRepository:   NewPaperRepository(pool),
		MessageRepository: NewMessageRepository(pool),
		TokenRepository:   NewTokenRepository(pool),
	}
}
