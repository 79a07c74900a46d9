// Package model provides the model catalog: identifiers, metadata, and
// workspace-partitioned lookup.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Visibility values for a model. Stored values are normalized at creation,
// but comparisons stay case-insensitive because older records may differ.
const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// ValidVisibility returns true if v names a known visibility.
func ValidVisibility(v string) bool {
	return strings.EqualFold(v, VisibilityPublic) || strings.EqualFold(v, VisibilityPrivate)
}

// NormalizeVisibility maps any casing of a known visibility to its canonical
// form. Unknown values are returned unchanged.
func NormalizeVisibility(v string) string {
	switch {
	case strings.EqualFold(v, VisibilityPublic):
		return VisibilityPublic
	case strings.EqualFold(v, VisibilityPrivate):
		return VisibilityPrivate
	}
	return v
}

// ID identifies a model resource in canonical "namespace:name:version" form.
type ID struct {
	Namespace string
	Name      string
	Version   string
}

// ParseID parses a canonical model identifier.
// All three segments must be present and non-empty.
func ParseID(s string) (ID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("invalid model ID %q: want namespace:name:version", s)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return ID{}, fmt.Errorf("invalid model ID %q: empty segment", s)
		}
	}
	return ID{Namespace: parts[0], Name: parts[1], Version: parts[2]}, nil
}

// String renders the canonical form.
func (id ID) String() string {
	return id.Namespace + ":" + id.Name + ":" + id.Version
}

// MarshalJSON renders the ID as its canonical string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON parses the canonical string form.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Info is the catalog metadata for a model.
type Info struct {
	ID          ID     `json:"id"`
	Author      string `json:"author"`
	Visibility  string `json:"visibility"`
	Description string `json:"description,omitempty"`
}

// IsPublic reports whether the model is publicly visible.
func (m *Info) IsPublic() bool {
	return strings.EqualFold(m.Visibility, VisibilityPublic)
}
