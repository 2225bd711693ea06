package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"section", "/orders"},
		{"sub", "/orders/list"},
		{"tab", ""},
	}
	got := Format(rows, nil)
	want := []string{
		"section  /orders",
		"sub      /orders/list",
		"tab      ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatRightAlignAndRaggedRows(t *testing.T) {
	rows := [][]string{
		{"a", "1", "x"},
		{"bb", "22"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"a    1  x",
		"bb  22  ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatMeasuresWideRunes(t *testing.T) {
	got := Format([][]string{{"日本", "x"}, {"abc", "y"}}, nil)
	want := []string{"日本  x", "abc   y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
	if Format(nil, nil) != nil {
		t.Fatal("expected nil for no rows")
	}
}
