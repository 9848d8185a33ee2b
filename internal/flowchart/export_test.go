package flowchart

import (
	"strings"
	"testing"
)

func TestDOT(t *testing.T) {
	t.Run("renders nodes and edges in order", func(t *testing.T) {
		g := Graph{Nodes: []Node{
			{Label: "Start", Children: []int{1, 2}},
			{Label: "Middle", Children: []int{2}},
			{Label: "End"},
		}}

		got := string(DOT("My Chart", g))

		want := "digraph flowchart {\n" +
			"\trankdir=TB;\n" +
			"\tnode [shape=box, style=rounded];\n" +
			"\tlabel=\"My Chart\";\n" +
			"\tlabelloc=t;\n" +
			"\tn0 [label=\"Start\"];\n" +
			"\tn1 [label=\"Middle\"];\n" +
			"\tn2 [label=\"End\"];\n" +
			"\tn0 -> n1;\n" +
			"\tn0 -> n2;\n" +
			"\tn1 -> n2;\n" +
			"}\n"
		if got != want {
			t.Errorf("unexpected DOT:\ngot:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		g := Graph{Nodes: []Node{{Label: "A", Children: []int{1}}, {Label: "B"}}}
		first := string(DOT("T", g))
		second := string(DOT("T", g))
		if first != second {
			t.Error("expected identical output for identical input")
		}
	})

	t.Run("escapes quotes and newlines in labels", func(t *testing.T) {
		g := Graph{Nodes: []Node{{Label: "say \"hi\"\nthen stop"}}}

		got := string(DOT("", g))
		if !strings.Contains(got, `n0 [label="say \"hi\"\nthen stop"];`) {
			t.Errorf("label not escaped: %s", got)
		}
		if strings.Contains(got, "labelloc") {
			t.Error("empty title must not emit a graph label")
		}
	})

	t.Run("skips out-of-range children", func(t *testing.T) {
		g := Graph{Nodes: []Node{{Label: "A", Children: []int{5, -1, 0}}}}

		got := string(DOT("", g))
		if strings.Contains(got, "n5") || strings.Contains(got, "-1") {
			t.Errorf("out-of-range edges leaked: %s", got)
		}
		if !strings.Contains(got, "n0 -> n0;") {
			t.Error("valid self edge missing")
		}
	})
}

func TestExportFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Water Cycle", "water_cycle.dot"},
		{"", "flowchart.dot"},
	}
	for _, tc := range cases {
		if got := ExportFilename(tc.title); got != tc.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes a node graph", func(t *testing.T) {
		body := []byte(`{"title":"T","flowchart":{"nodes":[{"label":"A","children":[1]},{"label":"B"}]}}`)

		chart, err := ParseResponse(body)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if chart.Title != "T" || len(chart.Flowchart.Nodes) != 2 {
			t.Errorf("unexpected chart %+v", chart)
		}
		if chart.Flowchart.Nodes[0].Children[0] != 1 {
			t.Errorf("unexpected children %+v", chart.Flowchart.Nodes[0].Children)
		}
	})

	t.Run("rejects payloads without nodes", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"title":"T"}`, `{"flowchart":{"nodes":[]}}`, `not json`} {
			if _, err := ParseResponse([]byte(body)); err == nil {
				t.Errorf("expected an error for %q", body)
			}
		}
	})
}
