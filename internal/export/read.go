package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/danmuck/fieldctl/internal/registry"
)

// Read decodes a document written by Write. Only the structured formats can
// be read back.
func Read(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("export read toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("export read yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("export read json: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("export: format %q cannot be read", f)
	}
	return doc, nil
}

// Fields converts doc back into registry entries, ready for registry.New.
func Fields(doc Document) ([]registry.Field, error) {
	var out []registry.Field
	for i, s := range doc.Spaces {
		ns, err := registry.ParseNamespace(s.Namespace)
		if err != nil {
			return nil, fmt.Errorf("space[%d]: %w", i, err)
		}
		kind, err := registry.ParseKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("space[%d]: %w", i, err)
		}
		for j, f := range s.Fields {
			group, err := registry.ParseGroup(f.Group)
			if err != nil {
				return nil, fmt.Errorf("space[%d] field[%d]: %w", i, j, err)
			}
			role, err := registry.ParseRole(f.Role)
			if err != nil {
				return nil, fmt.Errorf("space[%d] field[%d]: %w", i, j, err)
			}
			out = append(out, registry.Field{
				Namespace: ns,
				Kind:      kind,
				Name:      f.Name,
				Code:      f.Code,
				Group:     group,
				Role:      role,
			})
		}
	}
	return out, nil
}
