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
	"encoding/binary"
)

// testBitmap 用于测试的位图描述
type testBitmap struct {
	magic       string
	headerSize  uint32
	width       int32
	height      int32
	planes      uint16
	bpp         uint16
	compression uint32
	colors      uint32
	masks       []uint32
	palette     [][3]byte
	rows        [][]byte
	offset      int
}

// bytes 按描述生成位图文件, rows 按文件顺序存放且不含补齐
func (tb testBitmap) bytes() []byte {
	le := binary.LittleEndian
	if tb.headerSize == 0 {
		tb.headerSize = 40
	}
	if tb.planes == 0 {
		tb.planes = 1
	}
	dib := new(bytes.Buffer)
	put := func(b *bytes.Buffer, v interface{}) {
		_ = binary.Write(b, le, v)
	}
	put(dib, tb.headerSize)
	if tb.headerSize == 12 {
		put(dib, uint16(tb.width))
		put(dib, uint16(tb.height))
		put(dib, tb.planes)
		put(dib, tb.bpp)
	} else {
		put(dib, tb.width)
		put(dib, tb.height)
		put(dib, tb.planes)
		put(dib, tb.bpp)
		put(dib, tb.compression)
		put(dib, uint32(0))
		put(dib, int32(2835))
		put(dib, int32(2835))
		put(dib, tb.colors)
		put(dib, uint32(0))
		for _, m := range tb.masks {
			put(dib, m)
		}
		for uint32(dib.Len()) < tb.headerSize {
			dib.WriteByte(0)
		}
	}
	entry := 4
	if tb.headerSize == 12 {
		entry = 3
	}
	pal := new(bytes.Buffer)
	for _, c := range tb.palette {
		pal.Write([]byte{c[2], c[1], c[0]})
		if entry == 4 {
			pal.WriteByte(0)
		}
	}
	pixels := new(bytes.Buffer)
	for _, row := range tb.rows {
		pixels.Write(row)
		for pad := (4 - len(row)%4) % 4; pad > 0; pad-- {
			pixels.WriteByte(0)
		}
	}
	offset := tb.offset
	if offset == 0 {
		offset = fileHeaderSize + dib.Len() + pal.Len()
	}
	magic := tb.magic
	if magic == "" {
		magic = "BM"
	}
	out := new(bytes.Buffer)
	out.WriteString(magic[:2])
	put(out, uint32(fileHeaderSize+dib.Len()+pal.Len()+pixels.Len()))
	put(out, uint32(0))
	put(out, uint32(offset))
	out.Write(dib.Bytes())
	out.Write(pal.Bytes())
	for out.Len() < offset {
		out.WriteByte(0)
	}
	out.Write(pixels.Bytes())
	return out.Bytes()
}

// reader 返回可寻址的数据源
func (tb testBitmap) reader() *bytes.Reader {
	return bytes.NewReader(tb.bytes())
}
