package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

const shippedAreas = "../../../areas"

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestAreaRepository_LoadShipped(t *testing.T) {
	repo := NewAreaRepository(shippedAreas, zerolog.Nop())

	doc, err := repo.Load(area.Key{Type: "concentration", Name: "Statistics", Revision: "2014-15"})
	require.NoError(t, err)
	assert.Equal(t, "Statistics", doc.Name)
	assert.Equal(t, "concentration", doc.Type)
	assert.Equal(t, "2014-15", doc.Revision)
	assert.True(t, doc.Root.TopLevel)
	assert.Equal(t, requirement.TypeAll, doc.Root.Type)

	doc, err = repo.Load(area.Key{Type: "major", Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", doc.Name)
}

func TestAreaRepository_NotFound(t *testing.T) {
	repo := NewAreaRepository(shippedAreas, zerolog.Nop())

	_, err := repo.Load(area.Key{Type: "major", Name: "Underwater Basketweaving"})
	assert.ErrorIs(t, err, apperrors.ErrAreaNotFound)

	_, err = repo.Load(area.Key{Type: "concentration", Name: "Statistics", Revision: "1999-00"})
	assert.ErrorIs(t, err, apperrors.ErrAreaNotFound)
}

func TestAreaRepository_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "majors", "broken.yaml"), "name: Broken\nrequirements:\n  - needs: 1\n    flavor: sour\n")

	repo := NewAreaRepository(dir, zerolog.Nop())
	_, err := repo.Load(area.Key{Type: "major", Name: "Broken"})
	assert.ErrorIs(t, err, apperrors.ErrMalformedSpec)
}

func TestAreaRepository_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "majors", "asian-studies.yaml"), "requirements:\n  - ASIAN 101\n")
	writeFile(t, filepath.Join(dir, "emphases", "theory.yml"), "name: Theory\nrequirements:\n  - MATH 244\n")
	writeFile(t, filepath.Join(dir, "majors", "broken.yaml"), "requirements: [\n")
	writeFile(t, filepath.Join(dir, "majors", "notes.txt"), "ignore me")
	writeFile(t, filepath.Join(dir, ".git", "config.yaml"), "requirements:\n  - X 1\n")

	docs, err := NewAreaRepository(dir, zerolog.Nop()).List()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "emphasis", docs[0].Type)
	assert.Equal(t, "Theory", docs[0].Name)
	assert.Equal(t, "major", docs[1].Type)
	assert.Equal(t, "asian-studies", docs[1].Name)
}

func TestAreaRepository_ListMissingDirectory(t *testing.T) {
	docs, err := NewAreaRepository(filepath.Join(t.TempDir(), "none"), zerolog.Nop()).List()
	require.NoError(t, err)
	assert.Empty(t, docs)
}
