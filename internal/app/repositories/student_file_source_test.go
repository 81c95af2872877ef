package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

const studentDoc = `{
  "identifier": "100",
  "name": "Ada",
  "courses": [{"depts": ["STAT"], "num": "110"}],
  "overrides": {"STAT 316": true},
  "areas": [{"name": "Statistics", "type": "concentration", "revision": "2014-15"}]
}`

func TestStudentFileSource_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), studentDoc)
	writeFile(t, filepath.Join(dir, "a.json"), `{"courses": []}`)
	writeFile(t, filepath.Join(dir, "c.ip.json"), `not json`)
	writeFile(t, filepath.Join(dir, ".DS_Store"), `junk`)
	writeFile(t, filepath.Join(dir, "b.json~"), `junk`)

	students, err := NewStudentFileSource(dir, zerolog.Nop()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.Equal(t, "a", students[0].Identifier)
	assert.NotNil(t, students[0].Data.Courses)

	ada := students[1]
	assert.Equal(t, "100", ada.Identifier)
	assert.Equal(t, "Ada", ada.Name)
	require.Len(t, ada.Data.Courses, 1)
	assert.Equal(t, "STAT 110", ada.Data.Courses[0].DeptNum())
	assert.True(t, ada.Data.Overrides["STAT 316"])
	require.Len(t, ada.Data.Areas, 1)
	assert.Equal(t, "concentration", ada.Data.Areas[0].Type)
}

func TestStudentFileSource_GetByIdentifier(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ada.json"), studentDoc)
	writeFile(t, filepath.Join(dir, "200.json"), `{"courses": []}`)
	src := NewStudentFileSource(dir, zerolog.Nop())
	ctx := context.Background()

	st, err := src.GetByIdentifier(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "Ada", st.Name)

	st, err = src.GetByIdentifier(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, "200", st.Identifier)

	_, err = src.GetByIdentifier(ctx, "300")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = src.GetByIdentifier(ctx, "../200")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentFileSource_BadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"courses": [`)

	_, err := NewStudentFileSource(dir, zerolog.Nop()).List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestStudentFileSource_ShippedExamples(t *testing.T) {
	students, err := NewStudentFileSource("../../../example-students", zerolog.Nop()).List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, students)
	for _, st := range students {
		assert.NotEmpty(t, st.Data.Areas, st.Identifier)
	}
}

func TestSkipStudentFile(t *testing.T) {
	for _, name := range []string{".hidden", "Thumbs.db", "x.json~", "draft.ip", "a.ip.json"} {
		assert.True(t, skipStudentFile(name), name)
	}
	for _, name := range []string{"100.json", "student"} {
		assert.False(t, skipStudentFile(name), name)
	}
}
