package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/engine/hanson"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
)

// AreaLoader reads area documents from storage
type AreaLoader interface {
	Load(key area.Key) (*hanson.Document, error)
	List() ([]*hanson.Document, error)
}

// AreaService is the catalog of areas. Files win over built-in definitions with the same
// identity. Definitions are immutable once built and are shared between requests.
type AreaService struct {
	loader    AreaLoader
	builtins  []*area.Definition
	evaluator *evaluator.Evaluator
	logger    zerolog.Logger

	mu    sync.RWMutex
	cache map[area.Key]*area.Definition
}

// NewAreaService creates a catalog over loader and the built-in definitions. loader may be nil.
func NewAreaService(loader AreaLoader, builtins []*area.Definition, ev *evaluator.Evaluator, logger zerolog.Logger) *AreaService {
	return &AreaService{
		loader:    loader,
		builtins:  builtins,
		evaluator: ev,
		logger:    logger,
		cache:     make(map[area.Key]*area.Definition),
	}
}

// Get returns the definition for key. An empty revision selects whichever revision is
// available.
func (s *AreaService) Get(ctx context.Context, key area.Key) (*area.Definition, error) {
	if key.Type == "" || key.Name == "" {
		return nil, apperrors.NewMissingFieldError("area name and type")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	d, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	d, err := s.load(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		d = cached
	} else {
		s.cache[key] = d
	}
	s.mu.Unlock()
	return d, nil
}

func (s *AreaService) load(key area.Key) (*area.Definition, error) {
	if s.loader != nil {
		doc, err := s.loader.Load(key)
		switch {
		case err == nil:
			d, err := s.fromDocument(doc)
			if err != nil {
				return nil, err
			}
			l := logger.ForArea(s.logger, d.Type, d.Name, d.Revision)
			l.Debug().Msg("Area loaded from file")
			return d, nil
		case !errors.Is(err, apperrors.ErrAreaNotFound):
			return nil, err
		}
	}

	for _, b := range s.builtins {
		if matches(b.Key(), key) {
			return b, nil
		}
	}
	return nil, apperrors.NewCustomError(apperrors.ErrAreaNotFound, key.String())
}

// List returns every available area ordered by type then name
func (s *AreaService) List(ctx context.Context) ([]*area.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[area.Key]bool)
	var defs []*area.Definition

	if s.loader != nil {
		docs, err := s.loader.List()
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			d, err := s.fromDocument(doc)
			if err != nil {
				s.logger.Warn().Err(err).Str("area", doc.Name).Msg("Skipping invalid area")
				continue
			}
			seen[normalizedKey(d.Key())] = true
			defs = append(defs, d)
		}
	}
	for _, b := range s.builtins {
		if !seen[normalizedKey(b.Key())] {
			defs = append(defs, b)
		}
	}

	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Type != defs[j].Type {
			return defs[i].Type < defs[j].Type
		}
		return defs[i].Name < defs[j].Name
	})
	return defs, nil
}

func (s *AreaService) fromDocument(doc *hanson.Document) (*area.Definition, error) {
	d, err := area.New(doc.Name, doc.Type, doc.Revision, doc.Root, s.evaluator)
	if err != nil {
		return nil, fmt.Errorf("building area %s: %w", doc.Name, err)
	}
	for _, b := range s.builtins {
		if normalizedKey(b.Key()) == normalizedKey(d.Key()) {
			d.ID = b.ID
			d.DepartmentAbbr = b.DepartmentAbbr
		}
	}
	return d, nil
}

// matches compares a stored area against a requested key. Names compare by their file form so
// "asian studies" finds "Asian Studies".
func matches(have, want area.Key) bool {
	if area.Pluralize(have.Type) != area.Pluralize(want.Type) {
		return false
	}
	if area.KebabCase(have.Name) != area.KebabCase(want.Name) {
		return false
	}
	return want.Revision == "" || have.Revision == "" || strings.EqualFold(have.Revision, want.Revision)
}

func normalizedKey(k area.Key) area.Key {
	return area.Key{
		Type:     area.Pluralize(k.Type),
		Name:     area.KebabCase(k.Name),
		Revision: k.Revision,
	}
}
