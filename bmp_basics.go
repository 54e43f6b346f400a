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
	"image/color"
	"math/bits"
)

const (
	// fileHeaderSize 文件头长度
	fileHeaderSize = 14
	// rowAlign 扫描行对齐字节数
	rowAlign = 4
	// opaque 完全不透明的通道值
	opaque = ^uint32(0)
)

const (
	bitfield16Red   uint32 = 0x7C00
	bitfield16Green uint32 = 0x03E0
	bitfield16Blue  uint32 = 0x001F
	bitfield32Red   uint32 = 0x00FF0000
	bitfield32Green uint32 = 0x0000FF00
	bitfield32Blue  uint32 = 0x000000FF
)

// Version DIB头版本
type Version int

const (
	// VersionUnknown 未知版本
	VersionUnknown Version = 0
	// Version2 BITMAPCOREHEADER (12字节)
	Version2 Version = 2
	// Version3 BITMAPINFOHEADER (40字节)
	Version3 Version = 3
	// Version4 BITMAPV4HEADER (108字节)
	Version4 Version = 4
	// Version5 BITMAPV5HEADER (124字节)
	Version5 Version = 5
)

// versionFromHeaderSize 根据DIB头长度确定版本
// 入参: size DIB头长度
// 返回: Version 版本, error 错误信息
func versionFromHeaderSize(size uint32) (Version, error) {
	switch size {
	case 12:
		return Version2, nil
	case 40:
		return Version3, nil
	case 108:
		return Version4, nil
	case 124:
		return Version5, nil
	}
	return VersionUnknown, &Error{Kind: ErrUnsupportedHeaderSize, Value: int64(size)}
}

// String 版本名称
// 返回: string 名称
func (v Version) String() string {
	switch v {
	case Version2:
		return "BITMAPCOREHEADER"
	case Version3:
		return "BITMAPINFOHEADER"
	case Version4:
		return "BITMAPV4HEADER"
	case Version5:
		return "BITMAPV5HEADER"
	}
	return "unknown"
}

// Compression 压缩类型
type Compression uint32

const (
	// CompressionRGB 无压缩
	CompressionRGB Compression = 0
	// CompressionBitfields 位域
	CompressionBitfields Compression = 3
	// CompressionAlphaBitfields 带透明通道的位域
	CompressionAlphaBitfields Compression = 6
)

// compressionFromUint32 校验压缩类型
// 入参: v 原始值
// 返回: Compression 压缩类型, error 错误信息
func compressionFromUint32(v uint32) (Compression, error) {
	switch c := Compression(v); c {
	case CompressionRGB, CompressionBitfields, CompressionAlphaBitfields:
		return c, nil
	}
	return 0, &Error{Kind: ErrUnsupportedCompression, Value: int64(v)}
}

// hasBitfields 是否携带显式位域
// 返回: bool 是否携带
func (c Compression) hasBitfields() bool {
	return c == CompressionBitfields || c == CompressionAlphaBitfields
}

// Pixel 像素, 每个通道都扩展到32位精度
type Pixel struct {
	R uint32
	G uint32
	B uint32
	A uint32
}

// RGBA 实现 color.Color 接口
// 返回: r, g, b, a 预乘透明度的16位通道值
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return p.NRGBA64().RGBA()
}

// NRGBA64 转换为非预乘的64位颜色
// 返回: color.NRGBA64 颜色
func (p Pixel) NRGBA64() color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(p.R >> 16),
		G: uint16(p.G >> 16),
		B: uint16(p.B >> 16),
		A: uint16(p.A >> 16),
	}
}

// paletteEntry 调色板项
type paletteEntry struct {
	r, g, b uint8
}

// pixel 调色板项转换为不透明像素
// 返回: Pixel 像素
func (e paletteEntry) pixel() Pixel {
	return Pixel{
		R: upscale(uint32(e.r), 8),
		G: upscale(uint32(e.g), 8),
		B: upscale(uint32(e.b), 8),
		A: opaque,
	}
}

// upscale 将 width 位的值按位重复扩展到32位
// 入参: v 右对齐的通道值, width 通道位宽
// 返回: uint32 扩展后的值
func upscale(v uint32, width uint) uint32 {
	if width == 0 || width >= 32 {
		return v
	}
	out := v
	for i := uint(1); i < 32/width; i++ {
		out = out<<width | v
	}
	// 余下的低位取自 v 的最高位
	if rem := 32 % width; rem != 0 {
		out = out<<rem | v>>(width-rem)
	}
	return out
}

// maskWidth 位域掩码的位宽和偏移
// 入参: mask 掩码
// 返回: shift 低位零的个数, width 连续置位的个数
func maskWidth(mask uint32) (shift, width int) {
	shift = bits.TrailingZeros32(mask)
	width = bits.TrailingZeros32(^(mask >> shift))
	return shift, width
}

// maskIsContiguous 掩码的置位是否连续
// 入参: mask 掩码
// 返回: bool 是否连续
func maskIsContiguous(mask uint32) bool {
	if mask == 0 {
		return true
	}
	mask >>= bits.TrailingZeros32(mask)
	mask >>= bits.TrailingZeros32(^mask)
	return mask == 0
}

// extractChannel 按掩码取出分量并放大到32位
// 入参: px 像素值, mask 非零连续掩码
// 返回: uint32 分量值
func extractChannel(px, mask uint32) uint32 {
	shift, width := maskWidth(mask)
	return upscale((px&mask)>>shift, uint(width))
}

// channelOrZero 颜色分量缺失时视为0
// 入参: px 像素值, mask 掩码
// 返回: uint32 分量值
func channelOrZero(px, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	return extractChannel(px, mask)
}

// channelOrOpaque 透明通道缺失时视为完全不透明
// 入参: px 像素值, mask 掩码
// 返回: uint32 分量值
func channelOrOpaque(px, mask uint32) uint32 {
	if mask == 0 {
		return opaque
	}
	return extractChannel(px, mask)
}

// pixelFromBitfields 按位域掩码拆分打包像素
// 入参: px 打包像素, masks 红绿蓝透明掩码
// 返回: Pixel 像素
func pixelFromBitfields(px uint32, masks [4]uint32) Pixel {
	return Pixel{
		R: channelOrZero(px, masks[0]),
		G: channelOrZero(px, masks[1]),
		B: channelOrZero(px, masks[2]),
		A: channelOrOpaque(px, masks[3]),
	}
}
