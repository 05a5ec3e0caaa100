package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteLine(t *testing.T) {
	w := NewWriter("  ")

	w.WriteLine("line1")
	w.WriteLinef("line%d", 2)

	assert.Equal(t, "line1\nline2\n", w.String())
	assert.Equal(t, []byte("line1\nline2\n"), w.Bytes())
}

func TestWriter_Indentation(t *testing.T) {
	w := NewWriter("  ")

	w.WriteLine("export class A {")
	w.Indent()
	w.WriteLine("id!: number;")
	w.Indent()
	w.WriteLine("nested;")
	w.Dedent()
	w.Dedent()
	w.Dedent() // no-op below zero
	w.WriteLine("}")

	assert.Equal(t, "export class A {\n  id!: number;\n    nested;\n}\n", w.String())
}

func TestWriter_EmptyWriteKeepsIndentPending(t *testing.T) {
	w := NewWriter("  ")
	w.Indent()
	w.Write("")
	w.WriteLine("x")

	assert.Equal(t, "  x\n", w.String())
}

func TestWriter_BlankLine(t *testing.T) {
	w := NewWriter("  ")

	w.BlankLine() // nothing written yet, so no leading blank line
	w.WriteLine("line1")
	w.BlankLine()
	w.BlankLine()
	w.WriteLine("line2")

	lines := strings.Split(w.String(), "\n")
	require.Len(t, lines, 4) // line1, blank, line2, empty
	assert.Equal(t, "line1", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "line2", lines[2])
}

func TestWriter_WriteBlock(t *testing.T) {
	w := NewWriter("  ")

	w.WriteBlock("export class Repositories {", "}", func() {
		w.WriteLines("constructor(private _query: QueryParam) {}", "get A() { return 1; }")
	})

	expected := "export class Repositories {\n  constructor(private _query: QueryParam) {}\n  get A() { return 1; }\n}\n"
	assert.Equal(t, expected, w.String())
}

func TestWriter_WriteComment(t *testing.T) {
	w := NewWriter("  ")
	w.WriteComment("generated")
	assert.Equal(t, "// generated\n", w.String())
}

func TestWriter_WriteDocBlock(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "no lines",
			lines: nil,
			want:  "",
		},
		{
			name:  "single line",
			lines: []string{"user email"},
			want:  "  /**\n   * user email\n   */\n",
		},
		{
			name:  "multiple lines with blank",
			lines: []string{"first", "", "third"},
			want:  "  /**\n   * first\n   *\n   * third\n   */\n",
		},
		{
			name:  "terminator is escaped",
			lines: []string{"a */ b"},
			want:  "  /**\n   * a *\\/ b\n   */\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter("  ")
			w.Indent()
			w.WriteDocBlock(tt.lines)
			assert.Equal(t, tt.want, w.String())
		})
	}
}
