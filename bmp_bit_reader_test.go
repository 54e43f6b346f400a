// Copyright 2026 肖其顿 (XIAO QI DUN)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bmp

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBitReaderChunks(t *testing.T) {
	for _, width := range []uint8{1, 2, 4, 8} {
		br, err := NewBitReader(bytes.NewReader(bytes.Repeat([]byte{0xFF}, 4)), width)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		want := uint8(0xFF >> (8 - width))
		for i := 0; i < 8/int(width); i++ {
			got, err := br.ReadBits()
			if err != nil {
				t.Fatalf("width %d chunk %d: %v", width, i, err)
			}
			if got != want {
				t.Fatalf("width %d chunk %d: got %#x want %#x", width, i, got, want)
			}
		}
	}
}

func TestBitReaderLowBitsFirst(t *testing.T) {
	br, err := NewBitReader(bytes.NewReader([]byte{0xB4, 0x01}), 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := []uint8{0, 1, 3, 2, 1, 0}
	for i, w := range want {
		got, err := br.ReadBits()
		if err != nil {
			t.Fatalf("chunk %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("chunk %d: got %d want %d", i, got, w)
		}
	}
}

func TestBitReaderInvalidWidth(t *testing.T) {
	for _, width := range []uint8{0, 3, 5, 6, 7, 9, 16} {
		if _, err := NewBitReader(bytes.NewReader(nil), width); !errors.Is(err, ErrInvalidChunkWidth) {
			t.Fatalf("width %d: expected ErrInvalidChunkWidth, got %v", width, err)
		}
	}
}

func TestBitReaderSeekToByteBoundary(t *testing.T) {
	src := bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	br, err := NewBitReader(src, 8)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := br.SeekToByteBoundary(4); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos, _ := src.Seek(0, io.SeekCurrent); pos != 0 {
		t.Fatalf("aligned seek moved to %d", pos)
	}
	if _, err := br.ReadBits(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := br.SeekToByteBoundary(4); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos, _ := src.Seek(0, io.SeekCurrent); pos != 4 {
		t.Fatalf("expected position 4, got %d", pos)
	}
	if err := br.SeekToByteBoundary(4); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos, _ := src.Seek(0, io.SeekCurrent); pos != 4 {
		t.Fatalf("second seek not idempotent, position %d", pos)
	}
	v, err := br.ReadBits()
	if err != nil || v != 4 {
		t.Fatalf("expected byte 4, got %d (%v)", v, err)
	}
}

func TestBitReaderSeekRelativeToOrigin(t *testing.T) {
	src := bytes.NewReader(make([]byte, 16))
	if _, err := src.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	br, err := NewBitReader(src, 8)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := br.ReadBits(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := br.SeekToByteBoundary(4); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos, _ := src.Seek(0, io.SeekCurrent); pos != 6 {
		t.Fatalf("expected position 6, got %d", pos)
	}
}

func TestBitReaderSeekDiscardsPartialByte(t *testing.T) {
	br, err := NewBitReader(bytes.NewReader([]byte{0x21, 0x43}), 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if v, _ := br.ReadBits(); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if err := br.SeekToByteBoundary(1); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if v, _ := br.ReadBits(); v != 3 {
		t.Fatalf("expected low nibble of second byte, got %d", v)
	}
}

func TestBitReaderInvalidAlignment(t *testing.T) {
	br, err := NewBitReader(bytes.NewReader([]byte{0}), 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, align := range []int64{0, -4} {
		if err := br.SeekToByteBoundary(align); !errors.Is(err, ErrInvalidAlignment) {
			t.Fatalf("align %d: expected ErrInvalidAlignment, got %v", align, err)
		}
	}
}

func TestBitReaderEOF(t *testing.T) {
	br, err := NewBitReader(bytes.NewReader(nil), 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = br.ReadBits()
	if !errors.Is(err, ErrIO) || !errors.Is(err, io.EOF) {
		t.Fatalf("expected wrapped io.EOF, got %v", err)
	}
}
