package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV / 创建失败等错误。
var (
	renameFunc = os.Rename
	createFunc = os.Create
)

// PathTypeConflictError 表示路径类型冲突（例如期望文件但实际是目录）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 遇到 EXDEV 直接失败，不做 copy+delete。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// OpenRegular 以只读方式打开 path，并返回其长度。
//
// path 必须是普通文件：目录或设备等返回 PathTypeConflictError（此时文件已关闭）。
func OpenRegular(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, 0, &PathTypeConflictError{Path: path, Want: "file", Got: "dir"}
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, &PathTypeConflictError{Path: path, Want: "regular file", Got: fi.Mode().Type().String()}
	}
	return f, fi.Size(), nil
}

// Create 创建（或截断）path 用于写入。
func Create(path string) (*os.File, error) {
	return createFunc(path)
}

// SameFile 判断 a 与 b 是否指向同一个已存在的文件。
// 任一方 stat 失败时退化为比较 clean 后的路径。
func SameFile(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// AtomicFile 是一个“写完再 rename”的目标文件。
//
// - 临时文件与目标同目录，以保证 rename 的原子性
// - Commit 前目标文件不受影响；Abort 会删除临时文件
type AtomicFile struct {
	*os.File

	dst  string
	done bool
}

// CreateAtomic 在 dst 所在目录创建临时文件（前缀带 '.'），写入完成后调用 Commit 替换 dst。
func CreateAtomic(dst string) (*AtomicFile, error) {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{File: tmp, dst: dst}, nil
}

// Commit 依次执行 chmod、fsync、close、rename；任一步失败都会清理临时文件。
func (a *AtomicFile) Commit() error {
	if a.done {
		return os.ErrClosed
	}
	a.done = true
	tmpName := a.Name()

	err := a.Chmod(0o644)
	if err == nil {
		err = a.Sync()
	}
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = Rename(tmpName, a.dst)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	// 目录 fsync：best-effort。
	_ = syncDirBestEffort(filepath.Dir(a.dst))
	return nil
}

// Abort 放弃写入并删除临时文件；Commit 之后调用是 no-op。
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	_ = a.Close()
	_ = os.Remove(a.Name())
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，这里直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
