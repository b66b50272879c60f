package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SuramyaVimal/dag-cd/internal/dag"
	"github.com/SuramyaVimal/dag-cd/internal/scheduler"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyze runs the core stages without the pipeline package.
func analyze(t *testing.T, src string) (*Document, *dag.Graph) {
	t.Helper()
	prog, diags := tac.Parse(src)
	g := dag.Build(context.Background(), prog.Instructions)
	optimal, err := scheduler.Optimal(g)
	require.NoError(t, err)
	heuristic, err := scheduler.Heuristic(g)
	require.NoError(t, err)
	return FromResult(src, prog, diags, g, optimal, heuristic), g
}

func TestFromResult(t *testing.T) {
	doc, g := analyze(t, "a = b + c\nx y z =\nd = a + e\nf = d + g\n")

	assert.False(t, doc.Empty)
	assert.Len(t, doc.Instructions, 3)
	assert.Equal(t, "d = a + e", doc.Instructions[1].Text)
	assert.Len(t, doc.Nodes, g.Len())
	assert.Len(t, doc.Edges, len(g.Edges()))
	assert.Equal(t, []string{"a", "d", "f"}, doc.Optimal.Labels)
	assert.Equal(t, []int{3, 6, 9}, doc.Optimal.IDs)
	assert.Equal(t, "+_2", doc.Nodes[2].Name)
	require.NotNil(t, doc.Nodes[2].Left)
	assert.Equal(t, 0, *doc.Nodes[2].Left)
	assert.Nil(t, doc.Nodes[0].Left)
	assert.Equal(t, map[string]int{"a": 3, "d": 6, "f": 9}, doc.Bindings)

	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, 2, doc.Diagnostics[0].Line)
	assert.Equal(t, "x y z =", doc.Diagnostics[0].Raw)
}

func TestFromResult_Empty(t *testing.T) {
	prog, diags := tac.Parse("  \n")
	doc := FromResult("  \n", prog, diags, dag.New(), nil, nil)

	assert.True(t, doc.Empty)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Optimal.IDs)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, doc))
	assert.Contains(t, buf.String(), `"nodes": []`, "empty lists are encoded as arrays, not null")
}

func TestDocument_Graph(t *testing.T) {
	doc, g := analyze(t, "a = b + c\nd = b + c\ne = a * d\na = e - 1")

	t.Run("rebuilds the same graph", func(t *testing.T) {
		restored, err := doc.Graph()
		require.NoError(t, err)

		if diff := cmp.Diff(g.Nodes(), restored.Nodes()); diff != "" {
			t.Errorf("nodes mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, g.Edges(), restored.Edges())
		assert.Equal(t, g.Bindings(), restored.Bindings())
	})

	t.Run("survives JSON", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteJSON(buf, doc))
		decoded, err := ReadJSON(buf)
		require.NoError(t, err)

		restored, err := decoded.Graph()
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(g.Nodes(), restored.Nodes()))
		assert.Equal(t, doc.Heuristic, decoded.Heuristic)
	})

	t.Run("survives msgpack", func(t *testing.T) {
		data, err := Encode(doc)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)

		restored, err := decoded.Graph()
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(g.Nodes(), restored.Nodes()))
		assert.Equal(t, g.Edges(), restored.Edges())
		assert.Equal(t, doc.Source, decoded.Source)
		assert.Equal(t, doc.Optimal, decoded.Optimal)
	})
}

func TestDocument_GraphRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(d *Document)
		wantErr string
	}{
		{
			name:    "cycle",
			mutate:  func(d *Document) { d.Edges = append(d.Edges, EdgeRecord{Source: 3, Target: 0}) },
			wantErr: "cycle detected",
		},
		{
			name:    "unknown kind",
			mutate:  func(d *Document) { d.Nodes[1].Kind = "register" },
			wantErr: "unknown node kind",
		},
		{
			name:    "operator without operands",
			mutate:  func(d *Document) { d.Nodes[2].Left = nil },
			wantErr: "missing its operands",
		},
		{
			name:    "dangling edge",
			mutate:  func(d *Document) { d.Edges = append(d.Edges, EdgeRecord{Source: 0, Target: 99}) },
			wantErr: "destination node not found",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, _ := analyze(t, "a = b + c")
			tc.mutate(doc)

			_, err := doc.Graph()
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDocument_ProgramAndDiagnostics(t *testing.T) {
	src := "a = b + c\nbad = 1 2\nd = a"
	prog, diags := tac.Parse(src)
	doc, _ := analyze(t, src)

	assert.Empty(t, cmp.Diff(prog, doc.Program()))
	assert.Empty(t, cmp.Diff(diags, doc.ParserDiagnostics()))
}

func TestWriteDOT(t *testing.T) {
	doc, _ := analyze(t, "a = b + c")

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDOT(buf, doc))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph dag {\n"))
	assert.Contains(t, out, `n0 [label="b", shape=plaintext];`)
	assert.Contains(t, out, `n2 [label="+", shape=circle];`)
	assert.Contains(t, out, `n3 [label="a", shape=box];`)
	assert.Contains(t, out, "n0 -> n2;")
	assert.Contains(t, out, "n2 -> n3;")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWriteText(t *testing.T) {
	t.Run("sequences", func(t *testing.T) {
		doc, _ := analyze(t, "a = b + c\nd = a + e\nf = d + g")
		buf := &bytes.Buffer{}

		require.NoError(t, WriteText(buf, doc))

		assert.Contains(t, buf.String(), "Optimal Sequence: a → d → f\n")
		assert.Contains(t, buf.String(), "Heuristic Sequence: b → c → +_2 → a → e → +_5 → d → g → +_8 → f\n")
	})

	t.Run("empty", func(t *testing.T) {
		doc, _ := analyze(t, "")
		buf := &bytes.Buffer{}

		require.NoError(t, WriteText(buf, doc))

		assert.Equal(t, NothingToSchedule+"\n", buf.String())
	})
}

func TestWriteDiagnostics(t *testing.T) {
	doc, _ := analyze(t, "a = b + c\nx y z =\n")
	buf := &bytes.Buffer{}

	require.NoError(t, WriteDiagnostics(buf, "input.tac", doc, false))

	assert.Contains(t, buf.String(), "Warning: Invalid TAC line")
	assert.Contains(t, buf.String(), "on input.tac line 2")
	assert.Contains(t, buf.String(), "x y z =")

	clean, _ := analyze(t, "a = b")
	buf.Reset()
	require.NoError(t, WriteDiagnostics(buf, "input.tac", clean, false))
	assert.Empty(t, buf.String())
}

func TestWrite_Formats(t *testing.T) {
	doc, _ := analyze(t, "a = b + c")

	for _, format := range Formats {
		buf := &bytes.Buffer{}
		require.NoError(t, Write(buf, format, doc), format)
		assert.NotEmpty(t, buf.String(), format)
	}

	err := Write(&bytes.Buffer{}, "svg", doc)
	assert.ErrorContains(t, err, `unknown output format "svg"`)
	assert.Equal(t, "application/json", ContentType(FormatJSON))
}
