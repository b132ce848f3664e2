// Terminal detection for log colors
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import "io"

type fdWriter interface {
	Fd() uintptr
}

// isTerminalWriter reports whether w is a file descriptor attached to a TTY.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isTerminal(f.Fd())
}
