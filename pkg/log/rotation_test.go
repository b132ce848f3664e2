// Log rotation tests
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(ts string) func() time.Time {
	t, _ := time.Parse("20060102-150405", ts)
	return func() time.Time { return t }
}

func TestRotatingFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tile.log")
	w, err := OpenRotatingFile(RotationConfig{Filename: path})
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	if _, err := w.Write([]byte("one\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	w, err = OpenRotatingFile(RotationConfig{Filename: path})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	w.Write([]byte("two\n"))
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("expected appended content, got %q", data)
	}
	if w.Filename() != path {
		t.Errorf("expected filename %s, got %s", path, w.Filename())
	}
}

func TestRotatingFileRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tile.log")
	w, err := OpenRotatingFile(RotationConfig{Filename: path})
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	defer w.Close()
	w.maxSize = 8
	w.now = fixedClock("20260102-030405")

	w.Write([]byte("first line\n"))
	w.Write([]byte("second\n"))

	rotated := filepath.Join(dir, "tile.20260102-030405.log")
	data, err := os.ReadFile(rotated)
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if string(data) != "first line\n" {
		t.Errorf("unexpected rotated content %q", data)
	}
	current, _ := os.ReadFile(path)
	if string(current) != "second\n" {
		t.Errorf("unexpected current content %q", current)
	}
}

func TestRotatingFileCompressAndPrune(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tile.log")
	for _, old := range []string{"tile.20250101-000000.log.gz", "tile.20250102-000000.log.gz"} {
		if err := os.WriteFile(filepath.Join(dir, old), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := OpenRotatingFile(RotationConfig{Filename: path, MaxBackups: 2, Compress: true})
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	defer w.Close()
	w.maxSize = 4
	w.now = fixedClock("20260102-030405")

	w.Write([]byte("aaaa"))
	w.Write([]byte("bbbb"))

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")

	if !strings.Contains(joined, "tile.20260102-030405.log.gz") {
		t.Errorf("expected compressed rotation, got %v", names)
	}
	if _, err := os.Stat(filepath.Join(dir, "tile.20260102-030405.log")); !os.IsNotExist(err) {
		t.Errorf("expected uncompressed rotation to be removed, got %v", names)
	}
	if strings.Contains(joined, "tile.20250101-000000.log.gz") {
		t.Errorf("expected oldest backup to be pruned, got %v", names)
	}
	if !strings.Contains(joined, "tile.20250102-000000.log.gz") {
		t.Errorf("expected newer backup to survive, got %v", names)
	}
}

func TestIsRotatedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"tile.20260102-030405.log", true},
		{"tile.20260102-030405.log.gz", true},
		{"tile.log", false},
		{"tile.backup.log", false},
		{"other.20260102-030405.log", false},
	}
	for _, tt := range tests {
		if got := isRotatedFile(tt.name, "tile", ".log"); got != tt.want {
			t.Errorf("isRotatedFile(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestRotationConfigEmptyFilename(t *testing.T) {
	if _, err := OpenRotatingFile(RotationConfig{}); err == nil {
		t.Error("expected error for empty filename")
	}
}
