// Package visual renders typedfsm descriptions for humans and tooling.
package visual

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/typedfsm"
)

// ExportDOT generates Graphviz DOT source for d. The current state is filled.
func ExportDOT(d typedfsm.Description) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Machine {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	if d.MachineID != "" {
		fmt.Fprintf(&buf, "  label=%s;\n", quote(d.MachineID))
	}

	for _, state := range states(d) {
		switch {
		case state == typedfsm.AnyState:
			fmt.Fprintf(&buf, "  %s [label=\"any\" shape=circle];\n", quote(state))
		case state == d.Current:
			fmt.Fprintf(&buf, "  %s [style=filled fillcolor=lightgreen];\n", quote(state))
		default:
			fmt.Fprintf(&buf, "  %s;\n", quote(state))
		}
	}

	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(edgeLabel(e)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportYAML serializes d to YAML.
func ExportYAML(d typedfsm.Description) ([]byte, error) {
	return yaml.Marshal(d)
}

// ExportJSON serializes d to indented JSON.
func ExportJSON(d typedfsm.Description) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// states returns every state named by d, sorted, with the current state
// included even when it has no edges.
func states(d typedfsm.Description) []string {
	seen := map[string]bool{}
	if d.Current != "" {
		seen[d.Current] = true
	}
	for _, e := range d.Edges {
		seen[e.From] = true
		seen[e.To] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func edgeLabel(e typedfsm.Edge) string {
	if e.Actions == 0 {
		return e.Kind
	}
	return fmt.Sprintf("%s / %d", e.Kind, e.Actions)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
