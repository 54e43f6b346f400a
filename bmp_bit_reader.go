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

import "io"

// BitReader 位读取器, 每次从字节中由低位到高位取出固定位数
type BitReader struct {
	source       io.ReadSeeker
	origin       int64
	cur          uint8
	bitsLeft     uint8
	bitsPerChunk uint8
	buf          [1]byte
}

// NewBitReader 创建位读取器
// 入参: source 数据源, bitsPerChunk 每次读取的位数 (1, 2, 4 或 8)
// 返回: *BitReader 位读取器, error 错误信息
func NewBitReader(source io.ReadSeeker, bitsPerChunk uint8) (*BitReader, error) {
	if bitsPerChunk == 0 || bitsPerChunk > 8 || 8%bitsPerChunk != 0 {
		return nil, &Error{Kind: ErrInvalidChunkWidth, Value: int64(bitsPerChunk)}
	}
	origin, err := source.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioError(err)
	}
	return &BitReader{source: source, origin: origin, bitsPerChunk: bitsPerChunk}, nil
}

// ReadBits 读取一组位
// 返回: uint8 右对齐的结果, error 错误信息
func (b *BitReader) ReadBits() (uint8, error) {
	if b.bitsPerChunk == 8 {
		return b.readByte()
	}
	if b.bitsLeft == 0 {
		v, err := b.readByte()
		if err != nil {
			return 0, err
		}
		b.cur = v
		b.bitsLeft = 8
	}
	result := b.cur & (0xFF >> (8 - b.bitsPerChunk))
	b.cur >>= b.bitsPerChunk
	b.bitsLeft -= b.bitsPerChunk
	return result, nil
}

// SeekToByteBoundary 跳到下一个对齐位置并丢弃未读完的位
// 入参: align 对齐字节数, 相对于创建读取器时的位置
// 返回: error 错误信息
func (b *BitReader) SeekToByteBoundary(align int64) error {
	if err := seekToBoundary(b.source, b.origin, align); err != nil {
		return err
	}
	b.cur = 0
	b.bitsLeft = 0
	return nil
}

// readByte 读取一个字节
// 返回: uint8 字节, error 错误信息
func (b *BitReader) readByte() (uint8, error) {
	if _, err := io.ReadFull(b.source, b.buf[:]); err != nil {
		return 0, ioError(err)
	}
	return b.buf[0], nil
}

// seekToBoundary 将数据源前移到相对 origin 的 align 整数倍位置
// 入参: s 数据源, origin 对齐基准, align 对齐字节数
// 返回: error 错误信息
func seekToBoundary(s io.Seeker, origin, align int64) error {
	if align <= 0 {
		return &Error{Kind: ErrInvalidAlignment, Value: align}
	}
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return ioError(err)
	}
	if rem := (pos - origin) % align; rem != 0 {
		if _, err := s.Seek(align-rem, io.SeekCurrent); err != nil {
			return ioError(err)
		}
	}
	return nil
}
