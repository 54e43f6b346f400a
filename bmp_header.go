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

// Header 规范化后的位图头, 创建后不可修改
type Header struct {
	version     Version
	compression Compression
	width       uint32
	height      int32
	bpp         uint16
	colors      uint32
	masks       [4]uint32
	pixelOffset uint64
}

// Version 获取DIB头版本
// 返回: Version 版本
func (h *Header) Version() Version {
	return h.version
}

// Compression 获取压缩类型
// 返回: Compression 压缩类型
func (h *Header) Compression() Compression {
	return h.compression
}

// Width 获取宽度
// 返回: int 宽度
func (h *Header) Width() int {
	return int(h.width)
}

// Height 获取高度的绝对值
// 返回: int 高度
func (h *Header) Height() int {
	if h.height < 0 {
		return -int(h.height)
	}
	return int(h.height)
}

// TopDown 扫描行是否自上而下存储
// 返回: bool 是否自上而下
func (h *Header) TopDown() bool {
	return h.height < 0
}

// BitsPerPixel 获取像素位深
// 返回: int 位深
func (h *Header) BitsPerPixel() int {
	return int(h.bpp)
}

// Colors 获取调色板颜色数
// 返回: int 颜色数
func (h *Header) Colors() int {
	return int(h.colors)
}

// Masks 获取红绿蓝透明位域掩码
// 返回: r, g, b, a 掩码
func (h *Header) Masks() (r, g, b, a uint32) {
	return h.masks[0], h.masks[1], h.masks[2], h.masks[3]
}

// PixelOffset 获取像素数组的起始偏移
// 返回: int64 偏移
func (h *Header) PixelOffset() int64 {
	return int64(h.pixelOffset)
}

// newHeader 校验字段并创建头
// 入参: version 版本, width 宽度, height 高度, planes 平面数, bpp 位深, colors 声明的颜色数, pixelOffset 像素偏移
// 返回: *Header 头, error 错误信息
func newHeader(version Version, width, height int32, planes, bpp uint16, colors uint32, pixelOffset uint64) (*Header, error) {
	if width <= 0 {
		return nil, &Error{Kind: ErrInvalidWidth, Value: int64(width)}
	}
	if height == 0 {
		return nil, &Error{Kind: ErrInvalidHeight, Value: int64(height)}
	}
	if planes != 1 {
		return nil, &Error{Kind: ErrUnsupportedPlanes, Value: int64(planes)}
	}
	h := &Header{
		version:     version,
		width:       uint32(width),
		height:      height,
		bpp:         bpp,
		pixelOffset: pixelOffset,
	}
	switch bpp {
	case 1, 2, 4, 8:
		h.colors = colors
		if limit := uint32(1) << bpp; colors == 0 || colors > limit {
			h.colors = limit
		}
	case 16:
		h.masks = [4]uint32{bitfield16Red, bitfield16Green, bitfield16Blue, 0}
	case 24:
	case 32:
		h.masks = [4]uint32{bitfield32Red, bitfield32Green, bitfield32Blue, 0}
	default:
		return nil, &Error{Kind: ErrUnsupportedBitDepth, Value: int64(bpp)}
	}
	return h, nil
}

// setMasks 校验并设置显式位域
// 入参: masks 红绿蓝透明掩码
// 返回: error 错误信息
func (h *Header) setMasks(masks [4]uint32) error {
	if h.bpp != 16 && h.bpp != 32 {
		return &Error{Kind: ErrBitfieldsUnsupportedForDepth, Value: int64(h.bpp), Masks: masks}
	}
	for _, m := range masks {
		if !maskIsContiguous(m) {
			return &Error{Kind: ErrBitfieldsNotContiguous, Masks: masks}
		}
	}
	for i := 0; i < len(masks); i++ {
		for j := i + 1; j < len(masks); j++ {
			if masks[i]&masks[j] != 0 {
				return &Error{Kind: ErrBitfieldsOverlap, Masks: masks}
			}
		}
	}
	h.masks = masks
	return nil
}

// fieldReader 小端字段读取器
type fieldReader struct {
	r   io.ReadSeeker
	buf [4]byte
}

// read 读取n字节, n不超过4
// 入参: n 字节数
// 返回: []byte 数据, error 错误信息
func (f *fieldReader) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(f.r, f.buf[:n]); err != nil {
		return nil, ioError(err)
	}
	return f.buf[:n], nil
}

// u16 读取小端序16位无符号整数
// 返回: uint16 数值, error 错误信息
func (f *fieldReader) u16() (uint16, error) {
	b, err := f.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// u32 读取小端序32位无符号整数
// 返回: uint32 数值, error 错误信息
func (f *fieldReader) u32() (uint32, error) {
	b, err := f.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// i32 读取小端序32位有符号整数
// 返回: int32 数值, error 错误信息
func (f *fieldReader) i32() (int32, error) {
	v, err := f.u32()
	return int32(v), err
}

// skip 跳过n字节
// 入参: n 字节数
// 返回: error 错误信息
func (f *fieldReader) skip(n int64) error {
	if _, err := f.r.Seek(n, io.SeekCurrent); err != nil {
		return ioError(err)
	}
	return nil
}

// ReadHeader 从数据源起始位置解析文件头和DIB头
// 入参: r 数据源
// 返回: *Header 头, error 错误信息
func ReadHeader(r io.ReadSeeker) (*Header, error) {
	return readHeader(r, NopLogger{})
}

// readHeader 解析文件头和DIB头
// 入参: r 数据源, log 日志
// 返回: *Header 头, error 错误信息
func readHeader(r io.ReadSeeker, log Logger) (*Header, error) {
	f := &fieldReader{r: r}
	magic, err := f.read(2)
	if err != nil {
		return nil, err
	}
	if magic[0] != 'B' || magic[1] != 'M' {
		return nil, &Error{Kind: ErrBadMagic, Magic: [2]byte{magic[0], magic[1]}}
	}
	// 文件大小和保留字段
	if err := f.skip(8); err != nil {
		return nil, err
	}
	// 像素偏移只取低16位, 高16位被忽略
	offset, err := f.u16()
	if err != nil {
		return nil, err
	}
	if err := f.skip(2); err != nil {
		return nil, err
	}
	dibSize, err := f.u32()
	if err != nil {
		return nil, err
	}
	version, err := versionFromHeaderSize(dibSize)
	if err != nil {
		return nil, err
	}
	log = log.With(String("version", version.String()))
	var h *Header
	if version == Version2 {
		h, err = readCoreHeader(f, uint64(offset))
	} else {
		h, err = readInfoHeader(f, version, dibSize, uint64(offset))
	}
	if err != nil {
		log.Debug("bmp header rejected", Err("error", err))
		return nil, err
	}
	log.Debug("bmp header",
		Int("width", h.Width()),
		Int("height", int(h.height)),
		Int("bpp", h.BitsPerPixel()),
		Int("colors", h.Colors()),
		Int64("pixel_offset", h.PixelOffset()))
	return h, nil
}

// readCoreHeader 解析12字节的 BITMAPCOREHEADER
// 入参: f 字段读取器, offset 像素偏移
// 返回: *Header 头, error 错误信息
func readCoreHeader(f *fieldReader, offset uint64) (*Header, error) {
	var fields [4]uint16
	for i := range fields {
		v, err := f.u16()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return newHeader(Version2, int32(fields[0]), int32(fields[1]), fields[2], fields[3], 0, offset)
}

// readInfoHeader 解析40/108/124字节的DIB头
// 入参: f 字段读取器, version 版本, dibSize DIB头长度, offset 像素偏移
// 返回: *Header 头, error 错误信息
func readInfoHeader(f *fieldReader, version Version, dibSize uint32, offset uint64) (*Header, error) {
	width, err := f.i32()
	if err != nil {
		return nil, err
	}
	height, err := f.i32()
	if err != nil {
		return nil, err
	}
	planes, err := f.u16()
	if err != nil {
		return nil, err
	}
	bpp, err := f.u16()
	if err != nil {
		return nil, err
	}
	raw, err := f.u32()
	if err != nil {
		return nil, err
	}
	compression, err := compressionFromUint32(raw)
	if err != nil {
		return nil, err
	}
	// 图像大小和水平垂直分辨率
	if err := f.skip(12); err != nil {
		return nil, err
	}
	colors, err := f.u32()
	if err != nil {
		return nil, err
	}
	// 重要颜色数
	if err := f.skip(4); err != nil {
		return nil, err
	}
	h, err := newHeader(version, width, height, planes, bpp, colors, offset)
	if err != nil {
		return nil, err
	}
	h.compression = compression
	consumed := int64(40)
	if compression.hasBitfields() {
		n := 4
		if version == Version3 {
			n = 3
		}
		var masks [4]uint32
		for i := 0; i < n; i++ {
			if masks[i], err = f.u32(); err != nil {
				return nil, err
			}
		}
		if err := h.setMasks(masks); err != nil {
			return nil, err
		}
		if version != Version3 {
			consumed += 16
		}
	}
	// V4/V5 的色彩空间和伽马字段不解析
	if rest := int64(dibSize) - consumed; rest > 0 {
		if err := f.skip(rest); err != nil {
			return nil, err
		}
	}
	return h, nil
}
