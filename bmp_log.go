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

// Logger 结构化日志接口, 解码过程中的诊断信息通过它输出
type Logger interface {
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field 日志字段
type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

// String 字符串字段
func String(key, value string) Field { return stringField{key, value} }

// Int 整数字段
func Int(key string, value int) Field { return int64Field{key, int64(value)} }

// Int64 64位整数字段
func Int64(key string, value int64) Field { return int64Field{key, value} }

// Err 错误字段
func Err(key string, err error) Field { return errorField{key, err} }

// NopLogger 丢弃所有日志
type NopLogger struct{}

// Debug 丢弃调试日志
// 入参: msg 消息, fields 字段
func (NopLogger) Debug(msg string, fields ...Field) {}

// Warn 丢弃警告日志
// 入参: msg 消息, fields 字段
func (NopLogger) Warn(msg string, fields ...Field) {}

// With 返回自身
// 入参: fields 字段
// 返回: Logger 日志记录器
func (NopLogger) With(fields ...Field) Logger { return NopLogger{} }
