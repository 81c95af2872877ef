package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/dberrors"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
)

// AuditRepository stores audit reports
type AuditRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save inserts a new audit record, filling in its creation time
func (r *AuditRepository) Save(ctx context.Context, rec *models.AuditRecord) error {
	sql, args, err := r.sb.Insert("audits").
		Columns("id", "student_identifier", "result", "report").
		Values(rec.ID, rec.StudentIdentifier, rec.Result, rec.Report).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save audit query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rec.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err, "audits_pkey") {
			return fmt.Errorf("audit %s already stored: %w", rec.ID, err)
		}
		logger.Error().Err(err).Str("student", rec.StudentIdentifier).Msg("Error saving audit")
		return fmt.Errorf("error saving audit: %w", err)
	}
	return nil
}

// GetByID loads a stored audit
func (r *AuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditRecord, error) {
	sql, args, err := r.sb.
		Select("id", "student_identifier", "result", "report", "created_at").
		From("audits").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get audit query: %w", err)
	}

	var rec models.AuditRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID,
		&rec.StudentIdentifier,
		&rec.Result,
		&rec.Report,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrAuditNotFound, id.String())
		}
		return nil, fmt.Errorf("error retrieving audit: %w", err)
	}
	return &rec, nil
}
