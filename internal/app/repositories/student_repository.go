package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
)

// StudentRepository reads and writes student records. Courses, overrides and declared areas
// are stored as JSONB columns.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByIdentifier loads the student with the given identifier
func (r *StudentRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	sql, args, err := r.sb.
		Select("id", "identifier", "name", "graduation_year", "courses", "overrides", "areas").
		From("students").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var s models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.ID,
		&s.Identifier,
		&s.Name,
		&s.GraduationYear,
		&s.Data.Courses,
		&s.Data.Overrides,
		&s.Data.Areas,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, identifier)
		}
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &s, nil
}

// Upsert inserts the student or replaces the stored record with the same identifier
func (r *StudentRepository) Upsert(ctx context.Context, tx pgx.Tx, s *models.Student) error {
	courses := s.Data.Courses
	if courses == nil {
		courses = []models.Course{}
	}
	overrides := s.Data.Overrides
	if overrides == nil {
		overrides = models.Overrides{}
	}
	areas := s.Data.Areas
	if areas == nil {
		areas = []models.AreaRef{}
	}

	sql, args, err := r.sb.Insert("students").
		Columns("identifier", "name", "graduation_year", "courses", "overrides", "areas").
		Values(s.Identifier, s.Name, s.GraduationYear, courses, overrides, areas).
		Suffix(`ON CONFLICT (identifier) DO UPDATE SET
			name = EXCLUDED.name,
			graduation_year = EXCLUDED.graduation_year,
			courses = EXCLUDED.courses,
			overrides = EXCLUDED.overrides,
			areas = EXCLUDED.areas,
			updated_at = CURRENT_TIMESTAMP
			RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert student query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		logger.Error().Err(err).Str("identifier", s.Identifier).Msg("Error upserting student")
		return fmt.Errorf("error upserting student: %w", err)
	}
	return nil
}
