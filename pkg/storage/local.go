// Local filesystem line store
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package storage

import (
	"context"
	"os"
	"path/filepath"

	"gcodetile/pkg/errors"
	"gcodetile/pkg/log"
)

// LocalStore reads and writes files on the local filesystem.
type LocalStore struct {
	logger *log.Logger
}

// NewLocalStore creates a LocalStore. A nil logger uses the "storage" logger.
func NewLocalStore(logger *log.Logger) *LocalStore {
	if logger == nil {
		logger = log.GetLogger("storage")
	}
	return &LocalStore{logger: logger}
}

// ReadLines returns the lines of the file at path.
func (s *LocalStore) ReadLines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.InputReadError(path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.InputNotFoundError(path, err)
		}
		return nil, errors.InputReadError(path, err)
	}
	defer f.Close()

	lines, err := DecodeLines(f)
	if err != nil {
		return nil, errors.InputReadError(path, err)
	}
	s.logger.WithFields(log.Fields{"path": path, "lines": len(lines)}).Debug("read local file")
	return lines, nil
}

// WriteLines replaces the file at path. The data goes to a temporary file
// in the same directory which is then renamed over path, so readers never
// see a partial file.
func (s *LocalStore) WriteLines(ctx context.Context, path string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return errors.OutputWriteError(path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.OutputWriteError(path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	data := EncodeLines(lines)
	if _, err := tmp.Write(data); err != nil {
		return errors.OutputWriteError(path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errors.OutputWriteError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.OutputWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.OutputWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.OutputWriteError(path, err)
	}
	committed = true

	s.logger.WithFields(log.Fields{"path": path, "bytes": len(data)}).Debug("wrote local file")
	return nil
}
