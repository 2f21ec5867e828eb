package bulletin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxFilesPerArea != 20 {
		t.Fatalf("default cap: got %d", opts.MaxFilesPerArea)
	}
	if opts.PostMaxSizeTarget != 512000 {
		t.Fatalf("default size target: got %d", opts.PostMaxSizeTarget)
	}
	if opts.To != "All" {
		t.Fatalf("default to: got %q", opts.To)
	}
	if opts.SubjectFormat != "New files on {boardName}" {
		t.Fatalf("default subject: got %q", opts.SubjectFormat)
	}
	if opts.TemplateEncoding != "cp437" {
		t.Fatalf("default encoding: got %q", opts.TemplateEncoding)
	}
}

func TestLoadOptionsMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.json")
	override := `{"max_files_per_area": 5, "to": "Everyone"}`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	if opts.MaxFilesPerArea != 5 {
		t.Fatalf("override not applied: %d", opts.MaxFilesPerArea)
	}
	if opts.To != "Everyone" {
		t.Fatalf("override not applied: %q", opts.To)
	}
	// Untouched fields keep their defaults.
	if opts.From != "File Server" || opts.TemplateEncoding != "cp437" {
		t.Fatalf("defaults lost: %+v", opts)
	}
	// Relative template dir resolves against the options file.
	if opts.TemplateDir != filepath.Join(dir, "templates") {
		t.Fatalf("template dir not resolved: %q", opts.TemplateDir)
	}
}

func TestLoadOptionsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}
	_, err := LoadOptions(path)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestCompileAreaPatternDefaultExcludesUploads(t *testing.T) {
	re, err := DefaultOptions().CompileAreaPattern()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for tag, want := range map[string]bool{
		"games":       true,
		"text":        true,
		"uploads":     false,
		"uploads-tmp": false,
	} {
		ok, err := re.MatchString(tag)
		if err != nil {
			t.Fatalf("match %s: %v", tag, err)
		}
		if ok != want {
			t.Fatalf("tag %s: expected match=%v", tag, want)
		}
	}
}

func TestCompileAreaPatternInvalid(t *testing.T) {
	opts := DefaultOptions()
	opts.AreaTagsRegex = "("
	if _, err := opts.CompileAreaPattern(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for bad pattern, got %v", err)
	}
}
