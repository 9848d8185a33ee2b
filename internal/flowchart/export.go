package flowchart

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// DOT renders the graph as Graphviz source, the server-side analog of
// the chart image download. Output is deterministic: nodes in slice
// order, then edges in slice order. Child indexes outside the node
// range are skipped.
func DOT(title string, g Graph) []byte {
	var b strings.Builder
	b.WriteString("digraph flowchart {\n")
	b.WriteString("\trankdir=TB;\n")
	b.WriteString("\tnode [shape=box, style=rounded];\n")
	if title != "" {
		fmt.Fprintf(&b, "\tlabel=%s;\n\tlabelloc=t;\n", quoteLabel(title))
	}

	for i, node := range g.Nodes {
		fmt.Fprintf(&b, "\tn%d [label=%s];\n", i, quoteLabel(node.Label))
	}
	for i, node := range g.Nodes {
		for _, child := range node.Children {
			if child < 0 || child >= len(g.Nodes) {
				continue
			}
			fmt.Fprintf(&b, "\tn%d -> n%d;\n", i, child)
		}
	}

	b.WriteString("}\n")
	return []byte(b.String())
}

// quoteLabel escapes a label for a double-quoted DOT string.
func quoteLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// ExportFilename derives the download name from the chart title.
func ExportFilename(title string) string {
	name := strings.ToLower(whitespaceRe.ReplaceAllString(title, "_"))
	if name == "" {
		name = "flowchart"
	}
	return name + ".dot"
}
