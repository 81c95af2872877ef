package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// StudentFileSource serves student records from a directory of JSON documents, one student
// per file. A document holds "courses", "overrides" and "areas", optionally with an
// "identifier" and "name"; the file name stands in for a missing identifier.
type StudentFileSource struct {
	dir    string
	logger zerolog.Logger
}

type studentFile struct {
	Identifier     string `json:"identifier"`
	Name           string `json:"name"`
	GraduationYear int    `json:"graduationYear"`
	models.StudentData
}

// NewStudentFileSource creates a source reading from dir
func NewStudentFileSource(dir string, logger zerolog.Logger) *StudentFileSource {
	return &StudentFileSource{
		dir:    dir,
		logger: logger,
	}
}

// ReadStudentFile decodes one student document
func ReadStudentFile(path string) (*models.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read student file: %w", err)
	}

	var f studentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidFormat, fmt.Sprintf("%s: %v", filepath.Base(path), err))
	}
	if f.Identifier == "" {
		f.Identifier = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if f.Courses == nil {
		f.Courses = []models.Course{}
	}

	return &models.Student{
		Identifier:     f.Identifier,
		Name:           f.Name,
		GraduationYear: f.GraduationYear,
		Data:           f.StudentData,
	}, nil
}

// List loads every student in the directory, ordered by file name. Junk files and in-progress
// (".ip") files are skipped.
func (s *StudentFileSource) List(ctx context.Context) ([]*models.Student, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read students directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || skipStudentFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	students := make([]*models.Student, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := ReadStudentFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}

	s.logger.Debug().Str("dir", s.dir).Int("students", len(students)).Msg("Loaded student files")
	return students, nil
}

// GetByIdentifier finds the student with the given identifier
func (s *StudentFileSource) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	direct := filepath.Join(s.dir, identifier+".json")
	if filepath.Dir(direct) == filepath.Clean(s.dir) {
		st, err := ReadStudentFile(direct)
		if err == nil && st.Identifier == identifier {
			return st, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range students {
		if st.Identifier == identifier {
			return st, nil
		}
	}
	return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, identifier)
}

var junkNames = map[string]bool{
	".DS_Store":     true,
	"Thumbs.db":     true,
	"ehthumbs.db":   true,
	"Desktop.ini":   true,
	"desktop.ini":   true,
	"npm-debug.log": true,
}

// skipStudentFile matches OS clutter, editor swap files and in-progress files.
func skipStudentFile(name string) bool {
	switch {
	case junkNames[name]:
		return true
	case strings.HasPrefix(name, "."):
		return true
	case strings.HasSuffix(name, "~"):
		return true
	case strings.Contains(name, ".ip"):
		return true
	}
	return false
}
