package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStripInstructions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "header only", content: Header("new query: users"), want: ""},
		{name: "header and sql", content: Header("new query") + "SELECT 1\n-- keep me\n", want: "SELECT 1\n-- keep me"},
		{name: "no header", content: "  SELECT 2  ", want: "SELECT 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripInstructions(tt.content); got != tt.want {
				t.Errorf("StripInstructions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEdit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell script editor")
	}

	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'SELECT 42' >> \"$1\"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	got, err := Edit(Header("test"), "")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got != "SELECT 42" {
		t.Errorf("Edit() = %q, want %q", got, "SELECT 42")
	}
}
