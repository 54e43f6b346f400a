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
	"image"
	"image/color"
	"io"
	"math"
)

// maxHeaderSize 文件头与最长 DIB 头 (V5) 的总长度
const maxHeaderSize = fileHeaderSize + 124

// Decoder 位图解码器
type Decoder struct {
	source    io.ReadSeeker
	header    *Header
	headerEnd int64
	opts      options
}

// NewDecoder 创建解码器, 尺寸超出限制时在读取像素数据前返回错误
// 不可寻址的输入先只读入头部, 校验通过后再读入至多一幅图像的数据
// 入参: r 读取器, opts 选项
// 返回: *Decoder 解码器, error 错误信息
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	o := newOptions(DefaultLimits(), opts)
	rs, seekable := r.(io.ReadSeeker)
	var prefix []byte
	if !seekable {
		prefix = make([]byte, maxHeaderSize)
		n, err := io.ReadFull(r, prefix)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ioError(err)
		}
		prefix = prefix[:n]
		rs = bytes.NewReader(prefix)
	}
	h, err := readHeader(rs, o.logger)
	if err != nil {
		return nil, err
	}
	if err := o.checkLimits(h); err != nil {
		return nil, err
	}
	end, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioError(err)
	}
	if !seekable {
		rest, err := io.ReadAll(io.LimitReader(r, imageEnd(h, end)-int64(len(prefix))))
		if err != nil {
			return nil, ioError(err)
		}
		rs = bytes.NewReader(append(prefix, rest...))
	}
	return &Decoder{source: rs, header: h, headerEnd: end, opts: o}, nil
}

// imageEnd 估算图像数据的结束位置, 溢出时返回 math.MaxInt64
// 入参: h 头, headerEnd 头的结束位置
// 返回: int64 结束位置
func imageEnd(h *Header, headerEnd int64) int64 {
	entry := int64(4)
	if h.Version() == Version2 {
		entry = 3
	}
	start := max(h.PixelOffset(), headerEnd+int64(h.Colors())*entry)
	stride := (int64(h.Width())*int64(h.BitsPerPixel()) + 31) / 32 * rowAlign
	height := int64(h.Height())
	if stride > (math.MaxInt64-start)/height {
		return math.MaxInt64
	}
	return start + stride*height
}

// Header 获取位图头
// 返回: *Header 头
func (d *Decoder) Header() *Header {
	return d.header
}

// Config 获取图像配置
// 返回: image.Config 图像配置
func (d *Decoder) Config() image.Config {
	return image.Config{
		ColorModel: color.NRGBA64Model,
		Width:      d.header.Width(),
		Height:     d.header.Height(),
	}
}

// Decode 解码全部像素, 首个错误即中止, 可重复调用
// 返回: image.Image 图像, error 错误信息
func (d *Decoder) Decode() (image.Image, error) {
	if _, err := d.source.Seek(d.headerEnd, io.SeekStart); err != nil {
		return nil, ioError(err)
	}
	r, err := newReader(d.header, d.source, d.opts)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA64(image.Rect(0, 0, r.Width(), r.Height()))
	last := r.Height() - 1
	for item := range r.All() {
		if item.Err != nil {
			d.opts.logger.Debug("bmp decode failed", Int("x", item.X), Int("y", item.Y), Err("error", item.Err))
			return nil, item.Err
		}
		img.SetNRGBA64(item.X, last-item.Y, item.Pixel.NRGBA64())
	}
	return img, nil
}

// Decode 解码位图
// 入参: r 读取器
// 返回: image.Image 图像, error 错误信息
func Decode(r io.Reader) (image.Image, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return dec.Decode()
}

// DecodeConfig 获取位图配置
// 入参: r 读取器
// 返回: image.Config 图像配置, error 错误信息
func DecodeConfig(r io.Reader) (image.Config, error) {
	dec, err := NewDecoder(r)
	if err != nil {
		return image.Config{}, err
	}
	return dec.Config(), nil
}

func init() {
	image.RegisterFormat("bmp", "BM", Decode, DecodeConfig)
}
