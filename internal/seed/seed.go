package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/degreeaudit/internal/app/models"
	appRepos "github.com/yigit/degreeaudit/internal/app/repositories"
	"github.com/yigit/degreeaudit/internal/db"
)

// StudentLister provides the records to import
type StudentLister interface {
	List(ctx context.Context) ([]*appModels.Student, error)
}

// ImportStudents upserts every student from source into the database in one transaction.
func ImportStudents(ctx context.Context, dbPool *pgxpool.Pool, source StudentLister, lgr zerolog.Logger) (int, error) {
	students, err := source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read students: %w", err)
	}
	if len(students) == 0 {
		lgr.Info().Msg("No students to import")
		return 0, nil
	}

	repo := appRepos.NewStudentRepository(dbPool)
	err = db.WithTransaction(ctx, dbPool, func(ctx context.Context, tx pgx.Tx) error {
		for _, st := range students {
			if err := repo.Upsert(ctx, tx, st); err != nil {
				return fmt.Errorf("student %s: %w", st.Identifier, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	lgr.Info().Int("students", len(students)).Msg("Students imported")
	return len(students), nil
}
