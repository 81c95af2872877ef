package area

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/future"
)

func testDefinition(t *testing.T) *Definition {
	t.Helper()
	root := requirement.NewGroup("Mini", "", requirement.NewAll(
		requirement.NewGroup("Core", "", requirement.NewAll(requirement.Courses("STAT 272")...)),
		requirement.NewGroup("Extra", "", requirement.NewThreshold(requirement.AnyNumber, requirement.Courses("STAT 110", "STAT 212")...)),
	))
	d, err := New("Mini", "Concentration", "2014-15", root, evaluator.New(nil, zerolog.Nop()))
	require.NoError(t, err)
	return d
}

func stat(num string) models.Course {
	return models.Course{Departments: []string{"STAT"}, Number: num}
}

func TestNew(t *testing.T) {
	d := testDefinition(t)
	assert.Equal(t, "concentration", d.Type)
	assert.True(t, d.Requirements().TopLevel)
	assert.Equal(t, 2014, d.RevisionYear())
	assert.Equal(t, Key{Type: "concentration", Name: "Mini", Revision: "2014-15"}, d.Key())

	ev := evaluator.New(nil, zerolog.Nop())

	_, err := New("X", "major", "", nil, ev)
	assert.ErrorIs(t, err, apperrors.ErrMissingField)

	_, err = New("X", "major", "", requirement.Course("STAT 110"), ev)
	assert.ErrorIs(t, err, apperrors.ErrMalformedSpec)

	_, err = New("X", "major", "", requirement.NewGroup("X", "", requirement.NewAll()), ev)
	assert.ErrorIs(t, err, apperrors.ErrMalformedSpec)
}

func TestNew_DoesNotMutateCallerTree(t *testing.T) {
	root := requirement.NewGroup("Mini", "", requirement.NewAll(requirement.Courses("STAT 272")...))
	_, err := New("Mini", "major", "", root, evaluator.New(nil, zerolog.Nop()))
	require.NoError(t, err)
	assert.False(t, root.TopLevel)
}

func TestCheck(t *testing.T) {
	d := testDefinition(t)

	t.Run("satisfied", func(t *testing.T) {
		data := future.Resolved(models.StudentData{Courses: []models.Course{stat("272"), stat("212")}})
		report, err := d.Check(context.Background(), data)
		require.NoError(t, err)

		assert.True(t, report.Result)
		require.Len(t, report.Details, 2)
		assert.Equal(t, "Core", report.Details[0].Title)
		assert.Equal(t, "Extra", report.Details[1].Title)
		assert.Equal(t, models.AreaRef{Name: "Mini", Type: "concentration", Revision: "2014-15"}, report.Area)
	})

	t.Run("missing courses default to none", func(t *testing.T) {
		report, err := d.Check(context.Background(), future.Resolved(models.StudentData{}))
		require.NoError(t, err)
		assert.False(t, report.Result)
		assert.False(t, report.Details[0].Result)
		assert.False(t, report.Details[1].Result)
	})

	t.Run("acquisition failure", func(t *testing.T) {
		boom := errors.New("fetch failed")
		report, err := d.Check(context.Background(), future.Failed[models.StudentData](boom))
		assert.Nil(t, report)
		assert.Same(t, boom, err)
	})

	t.Run("pending data", func(t *testing.T) {
		release := make(chan struct{})
		data := future.Go(context.Background(), func(ctx context.Context) (models.StudentData, error) {
			<-release
			return models.StudentData{Courses: []models.Course{stat("272"), stat("110")}}, nil
		})
		close(release)

		report, err := d.Check(context.Background(), data)
		require.NoError(t, err)
		assert.True(t, report.Result)
	})

	t.Run("no data source", func(t *testing.T) {
		_, err := d.Check(context.Background(), nil)
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
	})

	t.Run("nil future", func(t *testing.T) {
		var data *future.Future[models.StudentData]
		report, err := d.Check(context.Background(), data)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, apperrors.ErrMissingField)
	})
}

func TestKeyPath(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Key{Type: "concentration", Name: "Statistics"}, "concentrations/statistics.yaml"},
		{Key{Type: "major", Name: "Asian Studies"}, "majors/asian-studies.yaml"},
		{Key{Type: "Emphasis", Name: "Women's and Gender Studies"}, "emphases/women-s-and-gender-studies.yaml"},
		{Key{Type: "degree", Name: "B.A."}, "degrees/b-a.yaml"},
		{Key{Type: "major", Name: "CompSci"}, "majors/comp-sci.yaml"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.key.Path(), tc.key.String())
	}
}

func TestKeyOf(t *testing.T) {
	k := KeyOf(models.AreaRef{Name: " Physics ", Type: "Major", Revision: "2015-16"})
	assert.Equal(t, Key{Type: "major", Name: "Physics", Revision: "2015-16"}, k)
	assert.Equal(t, "Physics major (2015-16)", k.String())
}
