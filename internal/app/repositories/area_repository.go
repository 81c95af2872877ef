package repositories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/hanson"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// AreaRepository reads Hanson area files laid out as <dir>/<type plural>/<kebab name>.yaml
type AreaRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewAreaRepository creates a repository rooted at dir
func NewAreaRepository(dir string, logger zerolog.Logger) *AreaRepository {
	return &AreaRepository{
		dir:    dir,
		logger: logger,
	}
}

// Load reads and normalizes the file for key. When key names a revision the file must
// declare the same one.
func (r *AreaRepository) Load(key area.Key) (*hanson.Document, error) {
	path := filepath.Join(r.dir, filepath.FromSlash(key.Path()))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewCustomError(apperrors.ErrAreaNotFound, key.String())
		}
		return nil, fmt.Errorf("failed to read area file %s: %w", path, err)
	}

	doc, err := hanson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("area file %s: %w", path, err)
	}
	fillIdentity(doc, key)

	if key.Revision != "" && doc.Revision != "" && doc.Revision != key.Revision {
		r.logger.Debug().
			Str("path", path).
			Str("wanted", key.Revision).
			Str("found", doc.Revision).
			Msg("Area file holds a different revision")
		return nil, apperrors.NewCustomError(apperrors.ErrAreaNotFound, key.String())
	}

	return doc, nil
}

// List parses every area file under the directory. Files that fail to parse are logged and
// skipped.
func (r *AreaRepository) List() ([]*hanson.Document, error) {
	var docs []*hanson.Document

	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) || !isYAML(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read area file %s: %w", path, err)
		}
		doc, err := hanson.Parse(data)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable area file")
			return nil
		}
		fillIdentity(doc, keyFromPath(r.dir, path))
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Type != docs[j].Type {
			return docs[i].Type < docs[j].Type
		}
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

// fillIdentity supplies the name and type implied by the file's location when the document
// leaves them out.
func fillIdentity(doc *hanson.Document, key area.Key) {
	if doc.Name == "" {
		doc.Name = key.Name
	}
	if doc.Type == "" {
		doc.Type = key.Type
	}
}

// keyFromPath recovers a best-effort key from "<dir>/majors/physics.yaml".
func keyFromPath(dir, path string) area.Key {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return area.Key{}
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	name := strings.TrimSuffix(strings.TrimSuffix(parts[len(parts)-1], ".yaml"), ".yml")
	key := area.Key{Name: name}
	if len(parts) > 1 {
		key.Type = singular(parts[len(parts)-2])
	}
	return key
}

func singular(dir string) string {
	switch {
	case dir == "emphases":
		return "emphasis"
	case strings.HasSuffix(dir, "ies"):
		return strings.TrimSuffix(dir, "ies") + "y"
	default:
		return strings.TrimSuffix(dir, "s")
	}
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
