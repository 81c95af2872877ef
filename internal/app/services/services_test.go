package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/app/repositories"
	"github.com/yigit/degreeaudit/internal/areas"
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/engine/hanson"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

const shippedAreas = "../../../areas"

func courses(t *testing.T, deptNums ...string) []models.Course {
	t.Helper()
	out := make([]models.Course, 0, len(deptNums))
	for _, dn := range deptNums {
		parts := strings.Fields(dn)
		require.Len(t, parts, 2, dn)
		out = append(out, models.Course{Departments: []string{parts[0]}, Number: parts[1]})
	}
	return out
}

func statisticsCourses(t *testing.T) []models.Course {
	return courses(t,
		"STAT 110", "STAT 212", "STAT 214", "STAT 263",
		"STAT 272", "STAT 316",
		"CSCI 125", "ECON 385", "MATH 262", "PSYCH 230",
		"SOAN 371", "STAT 270", "STAT 282", "STAT 322",
	)
}

var statisticsRef = models.AreaRef{Name: "Statistics", Type: "concentration", Revision: "2014-15"}
var physicsRef = models.AreaRef{Name: "Physics", Type: "major"}

func newAreaService(t *testing.T, loader AreaLoader) *AreaService {
	t.Helper()
	ev := evaluator.New(nil, zerolog.Nop())
	builtins, err := areas.Builtin(ev)
	require.NoError(t, err)
	return NewAreaService(loader, builtins, ev, zerolog.Nop())
}

type fakeStudents struct {
	students map[string]*models.Student
	err      error
	block    bool
	calls    int
	mu       sync.Mutex
}

func (f *fakeStudents) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	st, ok := f.students[identifier]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, identifier)
	}
	return st, nil
}

type fakeStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.AuditRecord
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*models.AuditRecord)}
}

func (f *fakeStore) Save(_ context.Context, rec *models.AuditRecord) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.CreatedAt = time.Date(2015, 5, 1, 12, 0, 0, 0, time.UTC)
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.AuditRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrAuditNotFound, id.String())
	}
	return rec, nil
}

type fakeLoader struct {
	err error
}

func (f fakeLoader) Load(area.Key) (*hanson.Document, error) { return nil, f.err }
func (f fakeLoader) List() ([]*hanson.Document, error) { return nil, f.err }

func shippedLoader() AreaLoader {
	return repositories.NewAreaRepository(shippedAreas, zerolog.Nop())
}

var errBoom = errors.New("registrar unavailable")
