package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/danmuck/fieldctl/internal/registry"
)

func render(t *testing.T, doc Document, f Format) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, f))
	return buf.String()
}

func TestBuildCoversEverySpace(t *testing.T) {
	reg := registry.Default()
	doc := Build(reg)
	assert.Equal(t, registry.APIVersion, doc.APIVersion)
	require.Len(t, doc.Spaces, len(reg.Spaces()))

	total := 0
	for _, s := range doc.Spaces {
		total += len(s.Fields)
		for i, f := range s.Fields {
			assert.Equal(t, i, f.Code, "space %s/%s", s.Namespace, s.Kind)
		}
	}
	assert.Equal(t, 1+1+42+2+40+1+15, total)
}

func TestBuildFiltersNamespaces(t *testing.T) {
	doc := Build(registry.Default(), registry.NamespaceFeedback)
	require.Len(t, doc.Spaces, 2)
	for _, s := range doc.Spaces {
		assert.Equal(t, "feedback", s.Namespace)
	}
	last := doc.Spaces[1].Fields[len(doc.Spaces[1].Fields)-1]
	assert.Equal(t, Field{Name: "MotorWindingTemperature", Code: 14, Ident: "FeedbackFloatMotorWindingTemperature"}, last)
}

func TestStructuredFormatsDecodeBack(t *testing.T) {
	doc := Build(registry.Default())

	var fromTOML Document
	_, err := toml.Decode(render(t, doc, FormatTOML), &fromTOML)
	require.NoError(t, err)
	assert.Equal(t, doc, fromTOML)

	var fromYAML Document
	require.NoError(t, yaml.Unmarshal([]byte(render(t, doc, FormatYAML)), &fromYAML))
	assert.Equal(t, doc, fromYAML)

	var fromJSON Document
	require.NoError(t, json.Unmarshal([]byte(render(t, doc, FormatJSON)), &fromJSON))
	assert.Equal(t, doc, fromJSON)
}

func TestMarkdownGroupsAndRoles(t *testing.T) {
	out := render(t, Build(registry.Default()), FormatMarkdown)
	assert.Contains(t, out, "API version: 0.15")
	assert.Contains(t, out, "## Feedback / HighResAngle")
	assert.Contains(t, out, "| 15 | VelocityKp | Velocity | Kp |")
	assert.Contains(t, out, "| 14 | MotorWindingTemperature |  |  |")
}

func TestGoConstantsMatchFlatLayout(t *testing.T) {
	out := render(t, Build(registry.Default(), registry.NamespaceCommand), FormatGo)
	assert.True(t, strings.HasPrefix(out, "// Code generated by fieldctl export; DO NOT EDIT."))
	assert.Contains(t, out, "package fields")
	assert.Contains(t, out, `const APIVersion = "0.15"`)
	assert.Contains(t, out, "CommandFloatTorqueKp")
	assert.Contains(t, out, "CommandEnumControlStrategy")
	assert.NotContains(t, out, "InfoString")
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{
		"TOML":     FormatTOML,
		"yml":      FormatYAML,
		" json ":   FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"go":       FormatGo,
	} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)

	var buf bytes.Buffer
	require.Error(t, Write(&buf, Document{}, Format("xml")))
}
