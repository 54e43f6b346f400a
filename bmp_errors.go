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
	"errors"
	"fmt"
)

// 错误种类, 可配合 errors.Is 使用
var (
	ErrBadMagic                     = errors.New("bmp: bad magic number")
	ErrUnsupportedHeaderSize        = errors.New("bmp: unsupported header size")
	ErrUnsupportedPlanes            = errors.New("bmp: unsupported number of planes")
	ErrUnsupportedCompression       = errors.New("bmp: unsupported compression type")
	ErrUnsupportedBitDepth          = errors.New("bmp: unsupported bits per pixel")
	ErrBitfieldsUnsupportedForDepth = errors.New("bmp: bitfields not supported for pixel depth")
	ErrBitfieldsNotContiguous       = errors.New("bmp: bitfields not contiguous")
	ErrBitfieldsOverlap             = errors.New("bmp: bitfields overlap")
	ErrInvalidWidth                 = errors.New("bmp: invalid width")
	ErrInvalidHeight                = errors.New("bmp: invalid height")
	ErrHeaderTooLarge               = errors.New("bmp: header larger than declared pixel offset")
	ErrPaletteIndex                 = errors.New("bmp: palette index out of range")
	ErrLimitExceeded                = errors.New("bmp: image exceeds decode limits")
	ErrIO                           = errors.New("bmp: read error")
	ErrInvalidAlignment             = errors.New("bmp: alignment must be positive")
	ErrInvalidChunkWidth            = errors.New("bmp: chunk width must divide 8")
)

// Error 解码错误
type Error struct {
	// Kind 错误种类, 取值为上面的 Err* 变量之一
	Kind error
	// Value 出错的字段值
	Value int64
	// Limit 与 Value 比较的界限, 如声明的像素偏移
	Limit int64
	// Magic 读到的签名字节
	Magic [2]byte
	// Masks 红绿蓝透明四个位域掩码
	Masks [4]uint32
	// Err 底层读取错误
	Err error
}

// Error 实现 error 接口
// 返回: string 错误描述
func (e *Error) Error() string {
	switch e.Kind {
	case ErrBadMagic:
		return fmt.Sprintf("%v: got %#02x %#02x", e.Kind, e.Magic[0], e.Magic[1])
	case ErrBitfieldsNotContiguous, ErrBitfieldsOverlap:
		return fmt.Sprintf("%v: r=%#08x g=%#08x b=%#08x a=%#08x", e.Kind, e.Masks[0], e.Masks[1], e.Masks[2], e.Masks[3])
	case ErrHeaderTooLarge:
		return fmt.Sprintf("%v: header ends at %d, pixels start at %d", e.Kind, e.Value, e.Limit)
	case ErrLimitExceeded:
		return fmt.Sprintf("%v: %d > %d", e.Kind, e.Value, e.Limit)
	case ErrPaletteIndex:
		return fmt.Sprintf("%v: index %d, palette size %d", e.Kind, e.Value, e.Limit)
	case ErrIO:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %d", e.Kind, e.Value)
}

// Unwrap 返回错误种类和底层错误
// 返回: []error 错误链
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ioError 包装底层读取错误
// 入参: err 底层错误
// 返回: error 错误信息
func ioError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrIO, Err: err}
}
