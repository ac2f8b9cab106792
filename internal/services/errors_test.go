package services_test

import (
	"errors"
	"strings"
	"testing"

	"vidpack/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encode", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "wrap", "write", "header", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for success, got %d", code)
	}
	empty := services.Wrap(services.ErrEmptyInput, "scan", "", "no input videos found", nil)
	if code := services.ExitCode(empty); code != 1 {
		t.Fatalf("expected 1 for empty input, got %d", code)
	}
	failed := services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "exit status 1", nil)
	if code := services.ExitCode(failed); code != 2 {
		t.Fatalf("expected 2 for failure, got %d", code)
	}
	if code := services.ExitCode(errors.New("plain")); code != 2 {
		t.Fatalf("expected 2 for untagged error, got %d", code)
	}
}
