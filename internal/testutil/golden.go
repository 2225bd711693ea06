package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/navshell/internal/navtree"
)

// AssertGolden compares output with testdata/<name> in the calling
// package. Set UPDATE_GOLDEN to rewrite the file.
func AssertGolden(t testing.TB, name, output string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			t.Fatalf("failed to update golden: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden %s: %v", name, err)
	}
	if string(data) != output {
		t.Fatalf("output mismatch for %s\nexpected:\n%s\nactual:\n%s", name, string(data), output)
	}
}

// DumpTree renders a tree as indented text: sections, their sub-sections
// and tabs, followed by the flattened link list.
func DumpTree(m *navtree.Model) string {
	var b strings.Builder
	for _, s := range m.Sections() {
		fmt.Fprintf(&b, "%s %s\n", s.Href, s.Text)
		for _, sub := range m.Subs(s.Href) {
			fmt.Fprintf(&b, "  %s %s\n", sub.Href, sub.Text)
			for _, tab := range m.Tabs(sub.Href) {
				fmt.Fprintf(&b, "    %s %s\n", tab.Href, tab.Text)
			}
		}
	}
	b.WriteString("links:\n")
	for _, l := range m.Links() {
		fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", l.Depth+1), l.Href, l.Text)
	}
	return b.String()
}
