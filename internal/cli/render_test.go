package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "json", []string{"json"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", " svg , json ", []string{"svg", "json"}},
		{"empty items dropped", "svg,,json,", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	repo := t.TempDir()
	tests := []struct {
		name          string
		output, input string
		want          string
	}{
		{"derived from dataset", "", "data/kernel.json", "data/kernel"},
		{"derived from repository dir", "", repo, filepath.Base(repo)},
		{"format extension stripped", "out/chart.svg", "kernel.json", "out/chart"},
		{"unknown extension kept", "out/chart.v2", "kernel.json", "out/chart.v2"},
		{"no extension", "out/chart", "kernel.json", "out/chart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingle(t *testing.T) {
	out := filepath.Join(t.TempDir(), "river.svg")
	paths, err := writeArtifacts(context.Background(), map[string][]byte{"svg": []byte("<svg/>")}, out, "in.json")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("paths = %v, want [%s]", paths, out)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "<svg/>" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteArtifactsMultiple(t *testing.T) {
	base := filepath.Join(t.TempDir(), "river")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}
	paths, err := writeArtifacts(context.Background(), artifacts, base+".svg", "in.json")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{base + ".json", base + ".svg"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}
