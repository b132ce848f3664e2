// Location-based store selection
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package storage

import (
	"context"
	"sync"

	"gcodetile/pkg/log"
)

// LineStore reads and replaces whole line-oriented files.
type LineStore interface {
	ReadLines(ctx context.Context, path string) ([]string, error)
	WriteLines(ctx context.Context, path string, lines []string) error
}

// S3Factory creates the object store on first use.
type S3Factory func(ctx context.Context) (LineStore, error)

// EnvS3Factory returns a factory that configures S3 from GCODETILE_S3_*.
func EnvS3Factory(logger *log.Logger) S3Factory {
	return func(ctx context.Context) (LineStore, error) {
		cfg, err := S3ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{
			"endpoint":   cfg.endpointURL(),
			"region":     cfg.Region,
			"path_style": cfg.UsePathStyle,
		}).Debug("configured S3 client")
		return NewS3Store(client, logger), nil
	}
}

// Router sends s3:// locations to the object store and everything else to
// the local store. The object store is only built when first needed, so
// local runs never load AWS configuration.
type Router struct {
	local   LineStore
	factory S3Factory

	once  sync.Once
	s3    LineStore
	s3Err error
}

// NewRouter creates a Router.
func NewRouter(local LineStore, factory S3Factory) *Router {
	return &Router{local: local, factory: factory}
}

func (r *Router) storeFor(ctx context.Context, location string) (LineStore, error) {
	if !IsS3URI(location) {
		return r.local, nil
	}
	r.once.Do(func() {
		r.s3, r.s3Err = r.factory(ctx)
	})
	return r.s3, r.s3Err
}

// ReadLines reads location from the matching store.
func (r *Router) ReadLines(ctx context.Context, location string) ([]string, error) {
	store, err := r.storeFor(ctx, location)
	if err != nil {
		return nil, err
	}
	return store.ReadLines(ctx, location)
}

// WriteLines writes location to the matching store.
func (r *Router) WriteLines(ctx context.Context, location string, lines []string) error {
	store, err := r.storeFor(ctx, location)
	if err != nil {
		return err
	}
	return store.WriteLines(ctx, location, lines)
}
