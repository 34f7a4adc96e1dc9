package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestAuthorTotals(t *testing.T) {
	totals := authorTotals(sampleDataset())
	if len(totals) != 3 {
		t.Fatalf("len = %d, want 3", len(totals))
	}

	alice := totals[0]
	if alice.Size != 150 || alice.Buckets != 2 || alice.Peak != 100 {
		t.Errorf("alice = %+v", alice)
	}
	if alice.First != 1700000000 || alice.Last != 1700604800 {
		t.Errorf("alice range = %d..%d", alice.First, alice.Last)
	}
	if got := alice.Share; got < 0.882 || got > 0.883 {
		t.Errorf("alice share = %v, want 150/170", got)
	}

	carol := totals[2]
	if carol.Size != 0 || carol.Buckets != 0 || carol.Share != 0 {
		t.Errorf("carol = %+v, want zero totals", carol)
	}
}

func TestSortTotals(t *testing.T) {
	totals := authorTotals(sampleDataset())

	sortTotals(totals, sortByName)
	var names []string
	for _, tt := range totals {
		names = append(names, tt.Name)
	}
	if got := strings.Join(names, ","); got != "Alice,bob,Carol" {
		t.Errorf("by name = %s", got)
	}

	sortTotals(totals, sortBySize)
	if totals[0].ID != "0" || totals[1].ID != "1" {
		t.Errorf("by size = %+v", totals)
	}
}

func TestPrintTotalsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := printTotalsTable(&buf, authorTotals(sampleDataset())); err != nil {
		t.Fatalf("printTotalsTable() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Alice", "Carol", "150", "88.2%", "14 NOV 2023", "21 NOV 2023"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Bartholomew Higginbotham", 10); got != "Barthol..." {
		t.Errorf("truncate = %q", got)
	}
}
