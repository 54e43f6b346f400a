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
	"encoding/binary"
	"io"
)

// pixelFormat 像素解码策略
type pixelFormat int

const (
	format1 pixelFormat = iota
	format2
	format4
	format8
	format16
	format24
	format32
)

// pixelStream 像素流, 独占数据源
type pixelStream struct {
	format  pixelFormat
	bpp     uint16
	palette []paletteEntry
	bits    *BitReader
	source  io.ReadSeeker
	origin  int64
	masks   [4]uint32
	buf     [4]byte
}

// readPalette 读取调色板, V2 每项3字节, 其余版本每项4字节
// 入参: h 头, r 数据源
// 返回: []paletteEntry 调色板, error 错误信息
func readPalette(h *Header, r io.Reader) ([]paletteEntry, error) {
	size := 4
	if h.version == Version2 {
		size = 3
	}
	palette := make([]paletteEntry, h.colors)
	var entry [4]byte
	for i := range palette {
		if _, err := io.ReadFull(r, entry[:size]); err != nil {
			return nil, ioError(err)
		}
		palette[i] = paletteEntry{r: entry[2], g: entry[1], b: entry[0]}
	}
	return palette, nil
}

// newPixelStream 读取调色板并定位到像素数组
// 入参: h 头, r 紧随头之后的数据源, log 日志
// 返回: *pixelStream 像素流, error 错误信息
func newPixelStream(h *Header, r io.ReadSeeker, log Logger) (*pixelStream, error) {
	palette, err := readPalette(h, r)
	if err != nil {
		return nil, err
	}
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioError(err)
	}
	if uint64(pos) > h.pixelOffset {
		log.Warn("bmp pixel offset inside header", Int64("position", pos), Int64("pixel_offset", h.PixelOffset()))
		return nil, &Error{Kind: ErrHeaderTooLarge, Value: pos, Limit: h.PixelOffset()}
	}
	if _, err := r.Seek(h.PixelOffset(), io.SeekStart); err != nil {
		return nil, ioError(err)
	}
	log.Debug("bmp pixel stream", Int("palette", len(palette)), Int64("skipped", h.PixelOffset()-pos))
	p := &pixelStream{bpp: h.bpp, palette: palette, source: r, origin: h.PixelOffset(), masks: h.masks}
	switch h.bpp {
	case 1:
		p.format = format1
	case 2:
		p.format = format2
	case 4:
		p.format = format4
	case 8:
		p.format = format8
	case 16:
		p.format = format16
		for i, m := range p.masks {
			p.masks[i] = uint32(uint16(m))
		}
	case 24:
		p.format = format24
	case 32:
		p.format = format32
	default:
		return nil, &Error{Kind: ErrUnsupportedBitDepth, Value: int64(h.bpp)}
	}
	if h.bpp < 8 {
		if p.bits, err = NewBitReader(r, uint8(h.bpp)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// next 解码下一个像素
// 返回: Pixel 像素, error 错误信息
func (p *pixelStream) next() (Pixel, error) {
	switch p.format {
	case format1, format2, format4:
		idx, err := p.bits.ReadBits()
		if err != nil {
			return Pixel{}, err
		}
		return p.lookup(int(idx))
	case format8:
		b, err := p.read(1)
		if err != nil {
			return Pixel{}, err
		}
		return p.lookup(int(b[0]))
	case format16:
		b, err := p.read(2)
		if err != nil {
			return Pixel{}, err
		}
		return pixelFromBitfields(uint32(binary.LittleEndian.Uint16(b)), p.masks), nil
	case format24:
		b, err := p.read(3)
		if err != nil {
			return Pixel{}, err
		}
		return paletteEntry{r: b[2], g: b[1], b: b[0]}.pixel(), nil
	case format32:
		b, err := p.read(4)
		if err != nil {
			return Pixel{}, err
		}
		return pixelFromBitfields(binary.LittleEndian.Uint32(b), p.masks), nil
	}
	return Pixel{}, &Error{Kind: ErrUnsupportedBitDepth, Value: int64(p.bpp)}
}

// seekToByteBoundary 对齐到相对像素数组起点的 align 整数倍
// 入参: align 对齐字节数
// 返回: error 错误信息
func (p *pixelStream) seekToByteBoundary(align int64) error {
	if p.bits != nil {
		return p.bits.SeekToByteBoundary(align)
	}
	return seekToBoundary(p.source, p.origin, align)
}

func (p *pixelStream) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(p.source, p.buf[:n]); err != nil {
		return nil, ioError(err)
	}
	return p.buf[:n], nil
}

// lookup 查找调色板
// 入参: idx 索引
// 返回: Pixel 像素, error 错误信息
func (p *pixelStream) lookup(idx int) (Pixel, error) {
	if idx >= len(p.palette) {
		return Pixel{}, &Error{Kind: ErrPaletteIndex, Value: int64(idx), Limit: int64(len(p.palette))}
	}
	return p.palette[idx].pixel(), nil
}
