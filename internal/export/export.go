// Package export renders the field registry for documentation and code
// generation tooling.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/danmuck/fieldctl/internal/registry"
)

type Format string

const (
	FormatTOML     Format = "toml"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatGo       Format = "go"
)

var Formats = []Format{FormatTOML, FormatYAML, FormatJSON, FormatMarkdown, FormatGo}

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "go":
		return FormatGo, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", raw)
	}
}

// Document is the serialisable view of a registry.
type Document struct {
	APIVersion string  `json:"api_version" yaml:"api_version" toml:"api_version"`
	Spaces     []Space `json:"spaces" yaml:"spaces" toml:"spaces"`
}

type Space struct {
	Namespace string  `json:"namespace" yaml:"namespace" toml:"namespace"`
	Kind      string  `json:"kind" yaml:"kind" toml:"kind"`
	Fields    []Field `json:"fields" yaml:"fields" toml:"fields"`
}

type Field struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Code  int    `json:"code" yaml:"code" toml:"code"`
	Ident string `json:"ident" yaml:"ident" toml:"ident"`
	Group string `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty"`
}

// Build snapshots reg. With no namespaces given every space is included.
func Build(reg *registry.Registry, namespaces ...registry.Namespace) Document {
	doc := Document{APIVersion: registry.APIVersion}
	for _, s := range reg.Spaces() {
		if len(namespaces) != 0 && !slices.Contains(namespaces, s.Namespace) {
			continue
		}
		space := Space{Namespace: s.Namespace.String(), Kind: s.Kind.String()}
		for _, f := range reg.FieldsOf(s.Namespace, s.Kind) {
			space.Fields = append(space.Fields, Field{
				Name:  f.Name,
				Code:  f.Code,
				Ident: f.Ident(),
				Group: f.Group.String(),
				Role:  f.Role.String(),
			})
		}
		doc.Spaces = append(doc.Spaces, space)
	}
	return doc
}

func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("export yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMarkdown:
		return renderTemplate(w, markdownTemplate, doc)
	case FormatGo:
		var buf bytes.Buffer
		if err := renderTemplate(&buf, goTemplate, doc); err != nil {
			return err
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return fmt.Errorf("export go: %w", err)
		}
		_, err = w.Write(src)
		return err
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

func renderTemplate(w io.Writer, text string, doc Document) error {
	caser := cases.Title(language.English)
	tmpl, err := template.New("export").Funcs(template.FuncMap{
		"title": caser.String,
		"kindIdent": func(raw string) string {
			k, err := registry.ParseKind(raw)
			if err != nil {
				return raw
			}
			return k.Ident()
		},
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("export template: %w", err)
	}
	if err := tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("export template: %w", err)
	}
	return nil
}

const markdownTemplate = `# Actuator field codes

API version: {{.APIVersion}}
{{range .Spaces}}
## {{title .Namespace}} / {{kindIdent .Kind}}

| Code | Name | Group | Role |
|-----:|------|-------|------|
{{range .Fields}}| {{.Code}} | {{.Name}} | {{.Group}} | {{.Role}} |
{{end}}{{end}}`

const goTemplate = `// Code generated by fieldctl export; DO NOT EDIT.

package fields

// APIVersion is the schema revision these codes belong to.
const APIVersion = "{{.APIVersion}}"
{{range .Spaces}}
// {{title .Namespace}} {{kindIdent .Kind}} field codes.
const (
{{range .Fields}}	{{.Ident}} = {{.Code}}
{{end}})
{{end}}`
