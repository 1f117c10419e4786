// Package format rewrites profile documents in canonical form.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/innerscope/internal/profile"
)

// Formatter formats profile documents canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns original content and error if formatting fails.
	Format(content string) (string, error)
}

// Field order per mapping kind. Unlisted keys follow alphabetically.
var (
	documentFields   = []string{"userId", "asOf", "stories", "conversations", "assessments", "userStats"}
	storyFields      = []string{"id", "title", "createdFormats"}
	messageFields    = []string{"role", "content"}
	assessmentFields = []string{"result", "completedAt"}
	statsFields      = []string{"totalConversations", "totalStories"}
)

// NewProfileFormatter creates a formatter that writes enc.
func NewProfileFormatter(enc profile.Encoding) Formatter {
	if enc == profile.EncodingJSON {
		return &JSONFormatter{}
	}
	return &YAMLFormatter{}
}

// YAMLFormatter formats YAML profile documents with two-space indentation.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(content string) (string, error) {
	root, err := parseDocument(content)
	if err != nil {
		return content, err
	}
	if root == nil {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return content, err
	}
	if err := enc.Close(); err != nil {
		return content, err
	}
	return ensureTrailingNewline(buf.String()), nil
}

// JSONFormatter formats JSON profile documents with two-space indentation.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(content string) (string, error) {
	root, err := parseDocument(content)
	if err != nil {
		return content, err
	}
	if root == nil {
		return "", nil
	}

	var compact bytes.Buffer
	if err := writeJSON(&compact, root); err != nil {
		return content, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return content, err
	}
	return ensureTrailingNewline(out.String()), nil
}

// parseDocument decodes content and reorders its mappings. A blank document
// yields nil.
func parseDocument(content string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("error parsing profile document: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("profile document must be a mapping")
	}
	normalizeDocument(root)
	return root, nil
}

func normalizeDocument(root *yaml.Node) {
	sortMapping(root, documentFields)
	for i := 0; i+1 < len(root.Content); i += 2 {
		value := root.Content[i+1]
		switch root.Content[i].Value {
		case "stories":
			sortEach(value, storyFields)
		case "conversations":
			sortEach(value, messageFields)
		case "assessments":
			if value.Kind == yaml.MappingNode {
				for j := 1; j < len(value.Content); j += 2 {
					sortMapping(value.Content[j], assessmentFields)
				}
			}
		case "userStats":
			sortMapping(value, statsFields)
		}
	}
}

func sortEach(seq *yaml.Node, priority []string) {
	if seq.Kind != yaml.SequenceNode {
		return
	}
	for _, item := range seq.Content {
		sortMapping(item, priority)
	}
}

// sortMapping reorders the key/value pairs of a mapping node. Priority keys
// come first, then others alphabetically.
func sortMapping(node *yaml.Node, priority []string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	rank := make(map[string]int, len(priority))
	for i, key := range priority {
		rank[key] = i
	}

	type pair struct{ key, value *yaml.Node }
	pairs := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, pair{node.Content[i], node.Content[i+1]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ri, iok := rank[pairs[i].key.Value]
		rj, jok := rank[pairs[j].key.Value]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return pairs[i].key.Value < pairs[j].key.Value
		}
	})

	node.Content = node.Content[:0]
	for _, p := range pairs {
		node.Content = append(node.Content, p.key, p.value)
	}
}

// writeJSON encodes a node tree as compact JSON, keeping mapping order.
func writeJSON(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.AliasNode:
		return writeJSON(buf, node.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(node.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		buf.Write(data)
	}
	return nil
}

func ensureTrailingNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}

// Diff computes a simple line diff between original and formatted content.
// Returns empty string if contents are identical.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", filename)
	fmt.Fprintf(&buf, "+++ %s (formatted)\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := 0; i < max(len(origLines), len(fmtLines)); i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				fmt.Fprintf(&buf, "- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Fprintf(&buf, "+ %s\n", fmtLine)
			}
		}
	}

	return buf.String()
}
