package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/merit/internal/contributors"
	"github.com/rohankatakam/merit/internal/errors"
)

func sampleStats() []*contributors.Stats {
	return []*contributors.Stats{
		{
			Identity:     contributors.Identity{Name: "Alice", Email: "alice@example.com"},
			CommitCount:  3,
			Additions:    42,
			Deletions:    7,
			FilesChanged: []string{"main.go", "util.go", "README.md"},
			LastCommit:   "Fix parser\n\nLong body",
			FileTypes:    map[string]int{"go": 4, "md": 1},
			LargestCommits: []contributors.CommitSize{
				{Additions: 30, Deletions: 5, Message: "Add parser"},
			},
			MostModifiedFiles: []contributors.FileCount{
				{Path: "main.go", Count: 3},
			},
		},
		{
			Identity:     contributors.Identity{Name: "Bob", Email: "bob@example.com"},
			CommitCount:  1,
			FilesChanged: []string{},
			FileTypes:    map[string]int{},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Setenv("MERIT_OUTPUT", "")

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultFormat_Env(t *testing.T) {
	t.Setenv("MERIT_OUTPUT", "json")
	assert.Equal(t, FormatJSON, DefaultFormat())

	t.Setenv("MERIT_OUTPUT", "bogus")
	assert.Equal(t, FormatText, DefaultFormat())
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &TextFormatter{}, NewFormatter(FormatText))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML))
	assert.IsType(t, &TextFormatter{}, NewFormatter("other"))
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, sampleStats()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Contributors (2)", lines[0])
	assert.Empty(t, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "#"))
	assert.Contains(t, lines[3], "Alice <alice@example.com>")
	assert.Contains(t, lines[3], "+42")
	assert.Contains(t, lines[3], "go,md")
	assert.Contains(t, lines[4], "Bob <bob@example.com>")
	assert.Contains(t, lines[4], " - ")
}

func TestTextFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, nil))
	assert.Equal(t, "No contributors found\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleStats()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Alice", decoded[0]["name"])
	assert.Equal(t, "alice@example.com", decoded[0]["email"])
	assert.EqualValues(t, 3, decoded[0]["commit_count"])
	assert.Len(t, decoded[0]["largest_commits"], 1)

	buf.Reset()
	require.NoError(t, (&JSONFormatter{}).Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, sampleStats()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Alice", decoded[0]["name"], "identity is inlined")
	assert.Equal(t, 42, decoded[0]["additions"])
}

func TestDetail(t *testing.T) {
	var buf bytes.Buffer
	Detail(&buf, sampleStats()[0])

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Alice <alice@example.com>\n"))
	assert.Contains(t, out, "Commits: 3   Lines: +42 -7   Files: 3")
	assert.Contains(t, out, "Most recent: Fix parser\n")
	assert.Contains(t, out, "    3  main.go")
	assert.Contains(t, out, "    4  Go")
	assert.Contains(t, out, "  +30 -5  Add parser")
}

func TestCommitLines(t *testing.T) {
	id := contributors.Identity{Name: "Alice", Email: "alice@example.com"}

	var buf bytes.Buffer
	CommitLines(&buf, id, []string{"2024-01-15 09:30:00 UTC: First\n\nbody", "2024-01-15 10:30:00 UTC: Second"})
	assert.Equal(t,
		"Commits by Alice <alice@example.com> (2)\n"+
			"2024-01-15 09:30:00 UTC: First\n"+
			"2024-01-15 10:30:00 UTC: Second\n",
		buf.String())

	buf.Reset()
	CommitLines(&buf, id, nil)
	assert.Contains(t, buf.String(), "No commits found")
}

func TestMarkdown_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "# Title\n\n- item\n\n", 80))
	assert.Equal(t, "# Title\n\n- item\n", buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nSome **bold** text.", 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestTerminalWidth_NonTerminal(t *testing.T) {
	assert.Equal(t, DefaultWrap, TerminalWidth(&bytes.Buffer{}))
}
