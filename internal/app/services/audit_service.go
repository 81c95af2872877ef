package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/future"
)

// StudentSource looks up student records
type StudentSource interface {
	GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error)
}

// AuditStore persists audit reports
type AuditStore interface {
	Save(ctx context.Context, rec *models.AuditRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuditRecord, error)
}

// AuditConfig holds audit service settings
type AuditConfig struct {
	Timeout time.Duration
	Persist bool
}

// AuditService checks students against the areas they have declared
type AuditService struct {
	areas    *AreaService
	students StudentSource
	store    AuditStore
	config   AuditConfig
	logger   zerolog.Logger
}

// NewAuditService creates a new AuditService. store may be nil, in which case nothing is
// persisted.
func NewAuditService(areas *AreaService, students StudentSource, store AuditStore, config AuditConfig, logger zerolog.Logger) *AuditService {
	return &AuditService{
		areas:    areas,
		students: students,
		store:    store,
		config:   config,
		logger:   logger,
	}
}

// AuditStudent audits a stored student. When refs is empty the areas declared on the
// student's record are used; otherwise the listed areas are resolved while the record is
// still loading.
func (s *AuditService) AuditStudent(ctx context.Context, identifier string, refs ...models.AreaRef) (*dto.AuditResponse, error) {
	if identifier == "" {
		return nil, apperrors.NewMissingFieldError("identifier")
	}
	if s.students == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, identifier)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pending := future.Go(ctx, func(ctx context.Context) (models.StudentData, error) {
		st, err := s.students.GetByIdentifier(ctx, identifier)
		if err != nil {
			return models.StudentData{}, acquisitionError(err)
		}
		return st.Data, nil
	})

	if len(refs) == 0 {
		data, err := pending.Await(ctx)
		if err != nil {
			return nil, err
		}
		refs = data.Areas
	}

	resp, err := s.check(ctx, pending, refs)
	if err != nil {
		return nil, err
	}
	resp.Student = identifier

	if err := s.persist(ctx, resp); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("student", identifier).
		Bool("result", resp.Result).
		Int("areas", len(resp.Areas)).
		Msg("Student audited")
	return resp, nil
}

// acquisitionError marks a failure of the student source itself. Missing students and
// cancellations keep their own meaning.
func acquisitionError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, apperrors.ErrAcquisitionFailed):
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrAcquisitionFailed, err)
}

// CheckRecord audits a record that was supplied directly. Nothing is persisted.
func (s *AuditService) CheckRecord(ctx context.Context, data models.StudentData) (*dto.AuditResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.check(ctx, future.Resolved(data), data.Areas)
}

// GetAudit loads a stored audit
func (s *AuditService) GetAudit(ctx context.Context, id uuid.UUID) (*models.AuditRecord, error) {
	if s.store == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrAuditNotFound, id.String())
	}
	return s.store.GetByID(ctx, id)
}

// check resolves and evaluates every area concurrently against the same pending data. The
// overall result holds only when every area is satisfied.
func (s *AuditService) check(ctx context.Context, pending evaluator.Pending, refs []models.AreaRef) (*dto.AuditResponse, error) {
	if len(refs) == 0 {
		return nil, apperrors.NewBadRequestError("no areas to audit against")
	}

	reports := make([]*area.Report, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			def, err := s.areas.Get(gctx, area.KeyOf(ref))
			if err != nil {
				return err
			}
			report, err := def.Check(gctx, pending)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn().Dur("timeout", s.config.Timeout).Msg("Audit timed out")
		}
		return nil, err
	}

	result := true
	for _, r := range reports {
		result = result && r.Result
	}
	return &dto.AuditResponse{Result: result, Areas: reports}, nil
}

func (s *AuditService) persist(ctx context.Context, resp *dto.AuditResponse) error {
	if s.store == nil || !s.config.Persist {
		return nil
	}

	report, err := json.Marshal(resp.Areas)
	if err != nil {
		return fmt.Errorf("failed to encode audit report: %w", err)
	}

	rec := &models.AuditRecord{
		ID:                uuid.New(),
		StudentIdentifier: resp.Student,
		Result:            resp.Result,
		Report:            report,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return err
	}

	resp.ID = &rec.ID
	resp.CreatedAt = &rec.CreatedAt
	return nil
}

func (s *AuditService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}
