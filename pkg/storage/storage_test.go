// Storage tests
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package storage

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gcodetile/pkg/errors"
)

func TestDecodeLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lf", "G28\nG1 X1\n", []string{"G28", "G1 X1"}},
		{"crlf", "G28\r\nG1 X1\r\n", []string{"G28", "G1 X1"}},
		{"no trailing newline", "G28\nG1 X1", []string{"G28", "G1 X1"}},
		{"bom", "\xef\xbb\xbf; header\nG1 X1", []string{"; header", "G1 X1"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLines(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("DecodeLines failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeLines(t *testing.T) {
	if got := string(EncodeLines([]string{"a", "\n", "b"})); got != "a\n\n\nb" {
		t.Errorf("unexpected encoding: %q", got)
	}
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(nil)
	ctx := context.Background()

	in := filepath.Join(dir, "in.gcode")
	if err := os.WriteFile(in, []byte("\xef\xbb\xbfG28\r\nG1 X1 Y1\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := store.ReadLines(ctx, in)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"G28", "G1 X1 Y1"}) {
		t.Errorf("unexpected lines: %q", lines)
	}

	out := filepath.Join(dir, "out.gcode")
	if err := os.WriteFile(out, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteLines(ctx, out, []string{"G28", "M84"}); err != nil {
		t.Fatalf("WriteLines failed: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "G28\nM84" {
		t.Errorf("expected output replaced, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestLocalStoreErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(nil)
	ctx := context.Background()

	_, err := store.ReadLines(ctx, filepath.Join(dir, "absent.gcode"))
	if !errors.Is(err, errors.ErrInputNotFound) {
		t.Errorf("expected INPUT_NOT_FOUND, got %v", err)
	}

	_, err = store.ReadLines(ctx, dir)
	if !errors.Is(err, errors.ErrInputRead) {
		t.Errorf("expected INPUT_READ for a directory, got %v", err)
	}

	err = store.WriteLines(ctx, filepath.Join(dir, "missing", "out.gcode"), []string{"M84"})
	if !errors.Is(err, errors.ErrOutputWrite) {
		t.Errorf("expected OUTPUT_WRITE, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.WriteLines(cancelled, filepath.Join(dir, "out.gcode"), nil); !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.gcode")); !os.IsNotExist(err) {
		t.Error("cancelled write must not create output")
	}
}

type fakeS3 struct {
	objects map[string]string
	puts    []*s3.PutObjectInput
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(data)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://prints/jobs/part.gcode")
	if err != nil || bucket != "prints" || key != "jobs/part.gcode" {
		t.Errorf("unexpected parse: %q %q %v", bucket, key, err)
	}
	for _, bad := range []string{"prints/part.gcode", "s3://", "s3://prints", "s3://prints/", "s3:///part.gcode"} {
		if _, _, err := ParseS3URI(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestS3Store(t *testing.T) {
	api := &fakeS3{objects: map[string]string{"prints/in.gcode": "\xef\xbb\xbfG28\nG1 X1\n"}}
	store := NewS3Store(api, nil)
	ctx := context.Background()

	lines, err := store.ReadLines(ctx, "s3://prints/in.gcode")
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"G28", "G1 X1"}) {
		t.Errorf("unexpected lines: %q", lines)
	}

	if err := store.WriteLines(ctx, "s3://prints/out/tiled.gcode", []string{"G28", "M84"}); err != nil {
		t.Fatalf("WriteLines failed: %v", err)
	}
	if got := api.objects["prints/out/tiled.gcode"]; got != "G28\nM84" {
		t.Errorf("unexpected object body: %q", got)
	}
	put := api.puts[0]
	if aws.ToString(put.ContentType) != GCodeContentType || aws.ToInt64(put.ContentLength) != 7 {
		t.Errorf("unexpected put metadata: %s %d", aws.ToString(put.ContentType), aws.ToInt64(put.ContentLength))
	}

	_, err = store.ReadLines(ctx, "s3://prints/absent.gcode")
	if !errors.Is(err, errors.ErrInputNotFound) {
		t.Errorf("expected INPUT_NOT_FOUND, got %v", err)
	}

	api.getErr = stderrors.New("connection reset")
	_, err = store.ReadLines(ctx, "s3://prints/in.gcode")
	if !errors.Is(err, errors.ErrInputRead) {
		t.Errorf("expected INPUT_READ, got %v", err)
	}

	if _, err := store.ReadLines(ctx, "s3://prints"); !errors.IsUsage(err) {
		t.Errorf("expected usage error for bad URI, got %v", err)
	}
}

func TestS3ConfigFromEnv(t *testing.T) {
	t.Setenv(EnvS3Endpoint, "minio:9000")
	t.Setenv(EnvS3Region, "")
	t.Setenv(EnvS3AccessKeyID, "key")
	t.Setenv(EnvS3SecretAccessKey, "secret")
	t.Setenv(EnvS3UseSSL, "false")
	t.Setenv(EnvS3UsePathStyle, "")

	cfg, err := S3ConfigFromEnv()
	if err != nil {
		t.Fatalf("S3ConfigFromEnv failed: %v", err)
	}
	if cfg.Region != DefaultS3Region || !cfg.UsePathStyle || cfg.UseSSL {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if got := cfg.endpointURL(); got != "http://minio:9000" {
		t.Errorf("unexpected endpoint: %s", got)
	}

	t.Setenv(EnvS3UseSSL, "maybe")
	if _, err := S3ConfigFromEnv(); !errors.Is(err, errors.ErrStorage) {
		t.Errorf("expected STORAGE error for bad bool, got %v", err)
	}

	t.Setenv(EnvS3UseSSL, "")
	t.Setenv(EnvS3SecretAccessKey, "")
	if _, err := S3ConfigFromEnv(); err == nil {
		t.Error("expected error for key without secret")
	}

	t.Setenv(EnvS3Endpoint, "")
	t.Setenv(EnvS3AccessKeyID, "")
	cfg, err = S3ConfigFromEnv()
	if err != nil {
		t.Fatalf("S3ConfigFromEnv failed: %v", err)
	}
	if cfg.UsePathStyle || cfg.endpointURL() != "" {
		t.Errorf("expected AWS defaults without endpoint, got %+v", cfg)
	}
}

func TestRouter(t *testing.T) {
	dir := t.TempDir()
	api := &fakeS3{objects: map[string]string{"b/in.gcode": "G1 X1"}}
	built := 0
	router := NewRouter(NewLocalStore(nil), func(context.Context) (LineStore, error) {
		built++
		return NewS3Store(api, nil), nil
	})
	ctx := context.Background()

	local := filepath.Join(dir, "out.gcode")
	if err := router.WriteLines(ctx, local, []string{"M84"}); err != nil {
		t.Fatalf("local write failed: %v", err)
	}
	if built != 0 {
		t.Error("S3 store must not be built for local paths")
	}

	lines, err := router.ReadLines(ctx, "s3://b/in.gcode")
	if err != nil || !reflect.DeepEqual(lines, []string{"G1 X1"}) {
		t.Errorf("unexpected S3 read: %q %v", lines, err)
	}
	if err := router.WriteLines(ctx, "s3://b/out.gcode", lines); err != nil {
		t.Fatalf("S3 write failed: %v", err)
	}
	if built != 1 {
		t.Errorf("expected S3 store built once, got %d", built)
	}

	failing := NewRouter(NewLocalStore(nil), func(context.Context) (LineStore, error) {
		return nil, errors.StorageError("no credentials", nil)
	})
	if _, err := failing.ReadLines(ctx, "s3://b/in.gcode"); !errors.Is(err, errors.ErrStorage) {
		t.Errorf("expected STORAGE error, got %v", err)
	}
}
