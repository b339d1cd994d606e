package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	CourseRepository      *CourseRepository
	CertificateRepository *CertificateRepository
	TokenRepository       *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		CourseRepository:      NewCourseRepository(db),
		CertificateRepository: NewCertificateRepository(db),
		TokenRepository:       NewTokenRepository(db),
	}
}
