// Error taxonomy tests
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestTileErrorMessage(t *testing.T) {
	err := InputNotFoundError("part.gcode", fs.ErrNotExist)
	msg := err.Error()
	if !strings.Contains(msg, "[INPUT_NOT_FOUND]") {
		t.Errorf("expected code in message, got: %s", msg)
	}
	if !strings.Contains(msg, "part.gcode") {
		t.Errorf("expected path in message, got: %s", msg)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("expected wrapped fs.ErrNotExist to be reachable")
	}

	err = UsageError("missing %s", "output").SetContext("args", 4)
	if got := err.Error(); got != "[USAGE] missing output (args=4)" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestIs(t *testing.T) {
	inner := OutputWriteError("out.gcode", fmt.Errorf("disk full"))
	wrapped := fmt.Errorf("pipeline: %w", inner)

	if !Is(wrapped, ErrOutputWrite) {
		t.Error("expected Is to see through fmt wrapping")
	}
	if Is(wrapped, ErrInputRead) {
		t.Error("unexpected match for INPUT_READ")
	}
	if !IsIO(wrapped) {
		t.Error("expected IsIO for output write error")
	}
	if IsUsage(wrapped) {
		t.Error("unexpected usage classification")
	}

	nested := Wrap(ProfileError("p.cfg", fmt.Errorf("bad")), ErrStorage, "outer")
	if !Is(nested, ErrProfile) {
		t.Error("expected Is to match a nested TileError code")
	}
	if Is(fmt.Errorf("plain"), ErrProfile) {
		t.Error("plain errors must not match")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{UsageError("missing input"), ExitUsage},
		{InputNotFoundError("x", nil), ExitFailure},
		{fmt.Errorf("other"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v): expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

func ExampleTileError() {
	err := InputReadError("s3://bucket/part.gcode", fmt.Errorf("connection reset"))
	fmt.Println(err)
	fmt.Println(Is(err, ErrInputRead), ExitCode(err))
	// Output:
	// [INPUT_READ] failed to read input: s3://bucket/part.gcode: connection reset
	// true 1
}
