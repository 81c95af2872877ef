package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

func newAuditService(t *testing.T, students StudentSource, store AuditStore, persist bool) *AuditService {
	t.Helper()
	return NewAuditService(newAreaService(t, shippedLoader()), students, store,
		AuditConfig{Timeout: 2 * time.Second, Persist: persist}, zerolog.Nop())
}

func TestCheckRecord(t *testing.T) {
	svc := newAuditService(t, nil, nil, false)

	resp, err := svc.CheckRecord(context.Background(), models.StudentData{
		Courses: statisticsCourses(t),
		Areas:   []models.AreaRef{statisticsRef},
	})
	require.NoError(t, err)
	assert.True(t, resp.Result)
	require.Len(t, resp.Areas, 1)
	assert.Equal(t, "Statistics", resp.Areas[0].Area.Name)
	assert.Len(t, resp.Areas[0].Details, 3)
	assert.Nil(t, resp.ID)

	resp, err = svc.CheckRecord(context.Background(), models.StudentData{
		Areas: []models.AreaRef{statisticsRef},
	})
	require.NoError(t, err)
	assert.False(t, resp.Result)
}

func TestCheckRecord_Errors(t *testing.T) {
	svc := newAuditService(t, nil, nil, false)
	ctx := context.Background()

	_, err := svc.CheckRecord(ctx, models.StudentData{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.CheckRecord(ctx, models.StudentData{Areas: []models.AreaRef{{Name: "Astrology", Type: "major"}}})
	assert.ErrorIs(t, err, apperrors.ErrAreaNotFound)
}

func TestAuditStudent_DeclaredAreasAndPersistence(t *testing.T) {
	students := &fakeStudents{students: map[string]*models.Student{
		"1001": {Identifier: "1001", Data: models.StudentData{
			Courses: statisticsCourses(t),
			Areas:   []models.AreaRef{statisticsRef, physicsRef},
		}},
	}}
	store := newFakeStore()
	svc := newAuditService(t, students, store, true)

	resp, err := svc.AuditStudent(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", resp.Student)
	require.Len(t, resp.Areas, 2)
	assert.True(t, resp.Areas[0].Result)
	assert.False(t, resp.Areas[1].Result)
	assert.False(t, resp.Result)
	require.NotNil(t, resp.ID)
	require.NotNil(t, resp.CreatedAt)

	rec, err := svc.GetAudit(context.Background(), *resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "1001", rec.StudentIdentifier)
	assert.False(t, rec.Result)

	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Report, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, true, stored[0]["result"])
}

func TestAuditStudent_RequestedAreas(t *testing.T) {
	students := &fakeStudents{students: map[string]*models.Student{
		"1003": {Identifier: "1003", Data: models.StudentData{Areas: []models.AreaRef{physicsRef}}},
	}}
	svc := newAuditService(t, students, newFakeStore(), false)

	resp, err := svc.AuditStudent(context.Background(), "1003", statisticsRef)
	require.NoError(t, err)
	require.Len(t, resp.Areas, 1)
	assert.Equal(t, "Statistics", resp.Areas[0].Area.Name)
	assert.Nil(t, resp.ID)
	assert.Equal(t, 1, students.calls)
}

func TestAuditStudent_SourceFailureIsAcquisitionError(t *testing.T) {
	svc := newAuditService(t, &fakeStudents{err: errBoom}, nil, false)

	_, err := svc.AuditStudent(context.Background(), "1001")
	assert.ErrorIs(t, err, apperrors.ErrAcquisitionFailed)
	assert.ErrorIs(t, err, errBoom)

	_, err = svc.AuditStudent(context.Background(), "1001", statisticsRef, physicsRef)
	assert.ErrorIs(t, err, apperrors.ErrAcquisitionFailed)
	assert.ErrorIs(t, err, errBoom)

	_, err = newAuditService(t, &fakeStudents{}, nil, false).AuditStudent(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrAcquisitionFailed)
}

func TestAuditStudent_Errors(t *testing.T) {
	ctx := context.Background()

	svc := newAuditService(t, &fakeStudents{}, nil, false)
	_, err := svc.AuditStudent(ctx, "404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svc.AuditStudent(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrMissingField)

	noAreas := newAuditService(t, &fakeStudents{students: map[string]*models.Student{"1": {Identifier: "1"}}}, nil, false)
	_, err = noAreas.AuditStudent(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	failing := newFakeStore()
	failing.err = errBoom
	persistFails := newAuditService(t, &fakeStudents{students: map[string]*models.Student{
		"1": {Identifier: "1", Data: models.StudentData{Areas: []models.AreaRef{statisticsRef}}},
	}}, failing, true)
	_, err = persistFails.AuditStudent(ctx, "1")
	assert.ErrorIs(t, err, errBoom)
}

func TestAuditStudent_Timeout(t *testing.T) {
	svc := NewAuditService(newAreaService(t, shippedLoader()), &fakeStudents{block: true}, nil,
		AuditConfig{Timeout: 20 * time.Millisecond}, zerolog.Nop())

	_, err := svc.AuditStudent(context.Background(), "1001", statisticsRef)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetAudit_WithoutStore(t *testing.T) {
	svc := newAuditService(t, nil, nil, true)
	_, err := svc.GetAudit(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrAuditNotFound)
}
