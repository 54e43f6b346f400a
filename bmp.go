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

// Package bmp 纯 Go 语言的 Windows 位图 (BMP) 逐像素解码器
package bmp

import (
	"io"
	"iter"
)

// Item 迭代产生的一个像素
type Item struct {
	// X 列号
	X int
	// Y 行号, 以最底行为 0
	Y int
	// Pixel 像素值, Err 非空时无效
	Pixel Pixel
	// Err 读取该像素时的错误
	Err error
}

// Reader 按行主序逐像素读取位图
type Reader struct {
	header  *Header
	pixels  *pixelStream
	width   int
	height  int
	topDown bool
	x       int
	y       int
	realign bool
}

// NewReader 解析头并创建像素读取器, 读取器不分配像素缓冲, 默认不限制尺寸
// 入参: r 位于文件起始位置的数据源, opts 选项
// 返回: *Reader 读取器, error 错误信息
func NewReader(r io.ReadSeeker, opts ...Option) (*Reader, error) {
	o := newOptions(Limits{}, opts)
	h, err := readHeader(r, o.logger)
	if err != nil {
		return nil, err
	}
	if err := o.checkLimits(h); err != nil {
		return nil, err
	}
	return newReader(h, r, o)
}

// newReader 根据已解析的头创建读取器
// 入参: h 头, r 紧随头之后的数据源, o 选项
// 返回: *Reader 读取器, error 错误信息
func newReader(h *Header, r io.ReadSeeker, o options) (*Reader, error) {
	pixels, err := newPixelStream(h, r, o.logger)
	if err != nil {
		return nil, err
	}
	return &Reader{
		header:  h,
		pixels:  pixels,
		width:   h.Width(),
		height:  h.Height(),
		topDown: h.TopDown(),
	}, nil
}

// Width 获取宽度
// 返回: int 宽度
func (r *Reader) Width() int {
	return r.width
}

// Height 获取高度
// 返回: int 高度
func (r *Reader) Height() int {
	return r.height
}

// Header 获取位图头
// 返回: *Header 头
func (r *Reader) Header() *Header {
	return r.header
}

// Next 读取下一个像素, 越过图像边界后返回 false
// 返回: Item 像素, bool 是否还有像素
func (r *Reader) Next() (Item, bool) {
	if r.x >= r.width {
		r.x = 0
		r.y++
		r.realign = true
	}
	if r.y >= r.height {
		return Item{}, false
	}
	item := Item{X: r.x, Y: r.row()}
	r.x++
	if r.realign {
		r.realign = false
		// 扫描行按4字节补齐
		if err := r.pixels.seekToByteBoundary(rowAlign); err != nil {
			item.Err = err
			return item, true
		}
	}
	item.Pixel, item.Err = r.pixels.next()
	return item, true
}

// All 以迭代器形式返回剩余像素
// 返回: iter.Seq[Item] 迭代器
func (r *Reader) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for {
			item, ok := r.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// row 当前扫描行对应的行号
// 返回: int 行号
func (r *Reader) row() int {
	if r.topDown {
		return r.height - 1 - r.y
	}
	return r.y
}
