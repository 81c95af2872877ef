package hanson

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// Document is a parsed area file.
type Document struct {
	Name     string
	Type     string
	Revision string
	Root     *requirement.Group
}

// Parse decodes a Hanson YAML document and normalizes it as a top-level requirement.
func Parse(data []byte) (*Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewMalformedSpecError("", fmt.Sprintf("invalid YAML: %v", err))
	}
	if raw == nil {
		return nil, apperrors.NewMalformedSpecError("", "document is empty")
	}

	node, err := Normalize(raw, Options{TopLevel: true})
	if err != nil {
		return nil, err
	}

	return &Document{
		Name:     strings.TrimSpace(stringValue(raw[keyName])),
		Type:     strings.ToLower(strings.TrimSpace(stringValue(raw[keyType]))),
		Revision: strings.TrimSpace(stringValue(raw[keyRevision])),
		Root:     node.(*requirement.Group),
	}, nil
}

// Marshal renders a document as Hanson YAML.
func Marshal(doc *Document) ([]byte, error) {
	m := Encode(doc.Root)
	if doc.Name != "" {
		m[keyName] = doc.Name
	}
	if doc.Type != "" {
		m[keyType] = doc.Type
	}
	if doc.Revision != "" {
		m[keyRevision] = doc.Revision
	}
	return yaml.Marshal(m)
}
