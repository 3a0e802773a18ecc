package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2019Q1.csv", "2020Q3.csv", "notes.txt", "2019Q4.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "2018Q1.csv"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	files, err := SelectFiles(dir)
	if err != nil {
		t.Fatalf("SelectFiles failed: %v", err)
	}

	want := []string{"2020Q3.csv", "2019Q4.csv", "2019Q1.csv"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectFilesMissingDir(t *testing.T) {
	if _, err := SelectFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestScanBlock(t *testing.T) {
	tests := []struct {
		name    string
		periods []string
		target  string
		want    []int
	}{
		{"single block", []string{"2021Q2", "2021Q3", "2021Q3", "2022"}, "2021Q3", []int{1, 2}},
		{"only first run", []string{"2021Q3", "2022", "2021Q3"}, "2021Q3", []int{0}},
		{"block at end", []string{"2021", "2021Q3", "2021Q3"}, "2021Q3", []int{1, 2}},
		{"no match", []string{"2021", "2022"}, "2021Q3", nil},
		{"empty", nil, "2021Q3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, scanBlock(tt.periods, tt.target)); diff != "" {
				t.Errorf("indices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
