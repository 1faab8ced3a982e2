package transcode

import (
	"errors"
	"fmt"
)

// Kind 标识转码失败发生在哪个阶段。
type Kind int

const (
	// KindOpen：源文件不存在/不可读/不是普通文件，或无法取得长度。
	KindOpen Kind = iota + 1
	// KindCreate：目标文件无法创建（权限、目录不存在、与源文件相同等）。
	KindCreate
	// KindRead：读取某个 chunk 失败（含提前遇到 EOF）。
	KindRead
	// KindWrite：写入某个 chunk 失败，或关闭目标文件失败。
	KindWrite
)

const (
	ErrCodeOpenFailed   = "open_failed"
	ErrCodeCreateFailed = "create_failed"
	ErrCodeReadFailed   = "read_failed"
	ErrCodeWriteFailed  = "write_failed"
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "打开源文件"
	case KindCreate:
		return "创建目标文件"
	case KindRead:
		return "读取"
	case KindWrite:
		return "写入"
	default:
		return "未知阶段"
	}
}

// Error 是转码阶段的结构化错误：哪个文件、哪个阶段、底层原因。
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s失败：%q：%v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s失败：%q", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsOpen(err error) bool   { return kindOf(err) == KindOpen }
func IsCreate(err error) bool { return kindOf(err) == KindCreate }
func IsRead(err error) bool   { return kindOf(err) == KindRead }
func IsWrite(err error) bool  { return kindOf(err) == KindWrite }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	switch kindOf(err) {
	case KindOpen:
		return ErrCodeOpenFailed
	case KindCreate:
		return ErrCodeCreateFailed
	case KindRead:
		return ErrCodeReadFailed
	case KindWrite:
		return ErrCodeWriteFailed
	default:
		return ""
	}
}
