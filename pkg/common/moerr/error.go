// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
)

const DefaultSqlState = "HY000"

const (
	// 0 - 99 is OK.
	Ok    uint16 = 0
	OkMax uint16 = 99

	// Group 1: Internal errors
	ErrStart        uint16 = 20100
	ErrInternal     uint16 = 20101
	ErrNYI          uint16 = 20102
	ErrOOM          uint16 = 20103
	ErrNotSupported uint16 = 20105

	// Group 2: numeric and functions
	ErrOutOfRange          uint16 = 20201
	ErrInvalidArg          uint16 = 20203
	ErrInvalidArgumentType uint16 = 20210

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301
	ErrParseError   uint16 = 20303

	// Group 4: unexpected state
	ErrInvalidState  uint16 = 20400
	ErrEmptyVector   uint16 = 20404
	ErrUnexpectedEOF uint16 = 20407

	// Group 10: array functions and type tags
	// ErrUnsupportedShape the column is not an array column with a nested column
	ErrUnsupportedShape uint16 = 21001
	// ErrUnsupportedElementType no single physical representation backs every argument
	ErrUnsupportedElementType uint16 = 21002
	// ErrUnknownTypeTag a wire type tag that has no internal mapping
	ErrUnknownTypeTag uint16 = 21003

	// ErrEnd, the max value of MOErrorCode
	ErrEnd uint16 = 65535
)

type moErrorMsgItem struct {
	sqlStates        []string
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	// Group 1: Internal errors
	ErrStart:        {[]string{DefaultSqlState}, "internal error: error code start"},
	ErrInternal:     {[]string{DefaultSqlState}, "internal error: %s"},
	ErrNYI:          {[]string{DefaultSqlState}, "%s is not yet implemented"},
	ErrOOM:          {[]string{DefaultSqlState}, "error: out of memory"},
	ErrNotSupported: {[]string{DefaultSqlState}, "not supported: %s"},

	// Group 2: numeric and functions
	ErrOutOfRange:          {[]string{DefaultSqlState}, "data out of range: data type %s, %s"},
	ErrInvalidArg:          {[]string{DefaultSqlState}, "invalid argument %s, bad value %s"},
	ErrInvalidArgumentType: {[]string{DefaultSqlState}, "invalid argument type: function %s does not support %s"},

	// Group 3: invalid input
	ErrBadConfig:    {[]string{DefaultSqlState}, "invalid configuration: %s"},
	ErrInvalidInput: {[]string{DefaultSqlState}, "invalid input: %s"},
	ErrParseError:   {[]string{DefaultSqlState}, "parser error: %s"},

	// Group 4: unexpected state
	ErrInvalidState:  {[]string{DefaultSqlState}, "invalid state %s"},
	ErrEmptyVector:   {[]string{DefaultSqlState}, "empty vector"},
	ErrUnexpectedEOF: {[]string{DefaultSqlState}, "unexpected end of file %s"},

	// Group 10: array functions and type tags
	ErrUnsupportedShape:       {[]string{DefaultSqlState}, "unsupported column shape: %s"},
	ErrUnsupportedElementType: {[]string{DefaultSqlState}, "function %s: unsupported array element type %s"},
	ErrUnknownTypeTag:         {[]string{DefaultSqlState}, "unknown type tag %d"},

	// Group End: max value of MOErrorCode
	ErrEnd: {[]string{DefaultSqlState}, "internal error: end of errcode code"},
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	var err *Error
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError(ctx, "not exist MOErrorCode: %d", code))
	}
	if len(args) == 0 {
		err = &Error{
			code:     code,
			message:  item.errorMsgOrFormat,
			sqlState: item.sqlStates[0],
		}
	} else {
		err = &Error{
			code:     code,
			message:  fmt.Sprintf(item.errorMsgOrFormat, args...),
			sqlState: item.sqlStates[0],
		}
	}
	return err
}

type Error struct {
	code     uint16
	message  string
	sqlState string
	detail   string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Detail() string {
	return e.detail
}

func (e *Error) Display() string {
	if len(e.detail) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.detail)
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) SqlState() string {
	return e.sqlState
}

func (e *Error) Succeeded() bool {
	return e.code < OkMax
}

func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	me, ok := e.(*Error)
	if !ok {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

// ConvertPanicError converts a runtime panic to internal error.
func ConvertPanicError(ctx context.Context, v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ctx, ErrInternal, fmt.Sprintf("panic %v: %s", v, debug.Stack()))
}

// ConvertGoError converts a go error into mo error.
// Note here we must return error, because nil error
// is the same as nil *Error -- Go strangeness.
func ConvertGoError(ctx context.Context, err error) error {
	if err == nil {
		return err
	}

	// already a moerr, return it as is
	if _, ok := err.(*Error); ok {
		return err
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return NewUnexpectedEOF(ctx, err.Error())
	}

	return NewInternalError(ctx, "convert go error to mo error %v", err)
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInternal, xmsg)
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNYI, xmsg)
}

func NewNotSupported(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNotSupported, xmsg)
}

func NewOOM(ctx context.Context) *Error {
	return newError(ctx, ErrOOM)
}

func NewOutOfRange(ctx context.Context, typ string, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrOutOfRange, typ, xmsg)
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewInvalidArgumentType(ctx context.Context, fn string, typ string) *Error {
	return newError(ctx, ErrInvalidArgumentType, fn, typ)
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrBadConfig, xmsg)
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidInput, xmsg)
}

func NewParseError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrParseError, xmsg)
}

func NewInvalidState(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidState, xmsg)
}

func NewEmptyVector(ctx context.Context) *Error {
	return newError(ctx, ErrEmptyVector)
}

func NewUnexpectedEOF(ctx context.Context, f string) *Error {
	return newError(ctx, ErrUnexpectedEOF, f)
}

func NewUnsupportedShape(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrUnsupportedShape, xmsg)
}

func NewUnsupportedElementType(ctx context.Context, fn string, typ string) *Error {
	return newError(ctx, ErrUnsupportedElementType, fn, typ)
}

func NewUnknownTypeTag(ctx context.Context, tag int32) *Error {
	return newError(ctx, ErrUnknownTypeTag, tag)
}
