package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repositories holds all the repository instances. The database-backed repositories are nil
// when no pool is configured.
type Repositories struct {
	AreaRepository    *AreaRepository
	StudentFiles      *StudentFileSource
	StudentRepository *StudentRepository
	AuditRepository   *AuditRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool, areasDir, studentsDir string, logger zerolog.Logger) *Repositories {
	repos := &Repositories{
		AreaRepository: NewAreaRepository(areasDir, logger),
		StudentFiles:   NewStudentFileSource(studentsDir, logger),
	}
	if db != nil {
		repos.StudentRepository = NewStudentRepository(db)
		repos.AuditRepository = NewAuditRepository(db)
	}
	return repos
}
