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

const (
	// maxImageDimension 默认的单边尺寸上限
	maxImageDimension = 32768
	// maxImagePixels 默认的像素总数上限 (64M)
	maxImagePixels int64 = 64 * 1024 * 1024
)

// Limits 解码限制, 零值字段表示不限制
type Limits struct {
	MaxDimension int
	MaxPixels    int64
}

// DefaultLimits 默认解码限制
// 返回: Limits 限制
func DefaultLimits() Limits {
	return Limits{MaxDimension: maxImageDimension, MaxPixels: maxImagePixels}
}

// check 校验图像尺寸是否在限制内
// 入参: width 宽度, height 高度
// 返回: error 错误信息
func (l Limits) check(width, height int) error {
	if l.MaxDimension > 0 {
		if width > l.MaxDimension {
			return &Error{Kind: ErrLimitExceeded, Value: int64(width), Limit: int64(l.MaxDimension)}
		}
		if height > l.MaxDimension {
			return &Error{Kind: ErrLimitExceeded, Value: int64(height), Limit: int64(l.MaxDimension)}
		}
	}
	if l.MaxPixels > 0 {
		if pixels := int64(width) * int64(height); pixels > l.MaxPixels {
			return &Error{Kind: ErrLimitExceeded, Value: pixels, Limit: l.MaxPixels}
		}
	}
	return nil
}

type options struct {
	logger Logger
	limits Limits
}

// checkLimits 校验头中的尺寸, 超限时记录警告
// 入参: h 头
// 返回: error 错误信息
func (o options) checkLimits(h *Header) error {
	if err := o.limits.check(h.Width(), h.Height()); err != nil {
		o.logger.Warn("bmp limits exceeded", Int("width", h.Width()), Int("height", h.Height()), Err("error", err))
		return err
	}
	return nil
}

// Option 解码选项
type Option func(*options)

// WithLogger 设置日志
// 入参: l 日志接口
// 返回: Option 选项
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLimits 设置解码限制
// 入参: l 限制
// 返回: Option 选项
func WithLimits(l Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// newOptions 合并选项, 默认不记录日志
// 入参: limits 默认限制, opts 选项
// 返回: options 选项集合
func newOptions(limits Limits, opts []Option) options {
	o := options{logger: NopLogger{}, limits: limits}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
