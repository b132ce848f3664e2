// Unit tests for the byte buffer pool
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package pool

import (
	"strconv"
	"sync"
	"testing"
)

func TestByteBuffer(t *testing.T) {
	b := GetByteBuffer()
	if b == nil {
		t.Fatal("GetByteBuffer returned nil")
	}

	b.WriteString("G1")
	b.WriteByte(' ')
	b.Write([]byte("X"))
	b.AppendFloat(12.3456, 3)

	if b.Len() != 10 {
		t.Errorf("expected length 10, got %d", b.Len())
	}
	if b.String() != "G1 X12.346" {
		t.Errorf("unexpected content: %s", b.String())
	}

	PutByteBuffer(b)

	// Get again - should be reset
	b2 := GetByteBuffer()
	if b2.Len() != 0 {
		t.Errorf("pooled buffer should be empty, got length %d", b2.Len())
	}
	PutByteBuffer(b2)
}

func TestByteBufferStringIsCopy(t *testing.T) {
	b := GetByteBuffer()
	b.WriteString("G1 X1.000")
	s := b.String()
	b.Reset()
	b.WriteString("M84")
	if s != "G1 X1.000" {
		t.Errorf("String must not alias the buffer, got %q", s)
	}
	PutByteBuffer(b)
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{0, 3, "0.000"},
		{-2.25, 3, "-2.250"},
		{1e6, 1, "1000000.0"},
		{0.0005, 3, "0.001"},
	}
	for _, tt := range tests {
		b := GetByteBuffer()
		b.AppendFloat(tt.v, tt.prec)
		if got := b.String(); got != tt.want {
			t.Errorf("AppendFloat(%v, %d): expected %s, got %s", tt.v, tt.prec, tt.want, got)
		}
		PutByteBuffer(b)
	}
}

func TestByteBufferGrow(t *testing.T) {
	b := GetByteBuffer()

	b.Grow(100)
	if b.Cap() < 100 {
		t.Errorf("capacity should be at least 100, got %d", b.Cap())
	}

	for i := 0; i < 200; i++ {
		b.WriteByte(byte(i % 256))
	}
	if b.Len() != 200 {
		t.Errorf("expected length 200, got %d", b.Len())
	}

	PutByteBuffer(b)
}

func TestByteBufferReset(t *testing.T) {
	b := GetByteBuffer()
	b.WriteString("test data")
	b.Reset()

	if b.Len() != 0 {
		t.Errorf("after Reset, length should be 0, got %d", b.Len())
	}

	PutByteBuffer(b)
}

func TestByteBufferOversized(t *testing.T) {
	b := GetByteBuffer()
	b.Write(make([]byte, MaxPooledBuffer+1))

	// Not pooled; the next Get still works
	PutByteBuffer(b)
	b2 := GetByteBuffer()
	if b2.Len() != 0 {
		t.Errorf("expected empty buffer, got length %d", b2.Len())
	}
	PutByteBuffer(b2)
}

func TestByteBufferNil(t *testing.T) {
	// Should not panic
	PutByteBuffer(nil)
}

func TestByteBufferPoolConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	iterations := 1000
	goroutines := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				b := GetByteBuffer()
				b.WriteString("G1 X")
				b.AppendFloat(float64(j), 3)
				PutByteBuffer(b)
			}
		}()
	}

	wg.Wait()
}

// Benchmarks

func BenchmarkByteBufferPool(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buf := GetByteBuffer()
		buf.WriteString("G1 X")
		buf.AppendFloat(123.456, 3)
		buf.WriteString(" Y")
		buf.AppendFloat(78.9, 3)
		_ = buf.String()
		PutByteBuffer(buf)
	}
}

func BenchmarkByteBufferNoPool(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := "G1 X" + strconv.FormatFloat(123.456, 'f', 3, 64) +
			" Y" + strconv.FormatFloat(78.9, 'f', 3, 64)
		_ = s
	}
}
