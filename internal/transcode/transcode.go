// Package transcode 把 GTA Vice City 的 .adf 音频还原为 MP3。
//
// ADF 就是每个字节都与 Key 做过 XOR 的 MP3；XOR 自反，所以同一个变换既能解码也能编码。
package transcode

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/adf2mp3/internal/infra/fsx"
)

const (
	// Key 是 ADF 混淆使用的固定字节（0x22）。
	Key byte = 34
	// ChunkSize 是每次读写的块大小（字节）。
	ChunkSize = 8192
)

// Result 描述一次成功转码。
type Result struct {
	Input  string
	Output string
	Bytes  int64
	Chunks int
}

// Transcoder 执行单次“读 → XOR → 写”流程。零值可用。
type Transcoder struct {
	// ChunkSize <= 0 时使用包级 ChunkSize。
	ChunkSize int
	// Atomic=true 时先写同目录临时文件，成功后再 rename 覆盖目标。
	Atomic bool
	// Logger 为 nil 时不输出日志。
	Logger logrus.FieldLogger
}

// Transcode 使用默认参数转码 inputPath 到 outputPath。
func Transcode(inputPath, outputPath string) error {
	_, err := Transcoder{}.Transcode(inputPath, outputPath)
	return err
}

// XOR 原地把 buf 的每个字节与 Key 做异或。
func XOR(buf []byte) {
	for i := range buf {
		buf[i] ^= Key
	}
}

// Transcode 读取 inputPath，逐块 XOR 后写入 outputPath（截断已有内容）。
//
// 先打开源文件再创建目标：源文件打不开时目标文件不会被创建。
// 非 Atomic 模式下失败不会清理已写出的部分，目标文件可能被截断。
func (t Transcoder) Transcode(inputPath, outputPath string) (Result, error) {
	log := t.Logger
	if log == nil {
		log = discardLogger()
	}

	src, size, err := fsx.OpenRegular(inputPath)
	if err != nil {
		return Result{}, &Error{Kind: KindOpen, Path: inputPath, Err: err}
	}
	defer src.Close()

	// 截断目标之前先排除“输入输出是同一个文件”，否则会毁掉源数据。
	if fsx.SameFile(inputPath, outputPath) {
		return Result{}, &Error{Kind: KindCreate, Path: outputPath, Err: errors.New("目标与源文件相同")}
	}

	log.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"bytes":  size,
		"atomic": t.Atomic,
	}).Debug("开始转码")

	var chunks int
	if t.Atomic {
		chunks, err = t.copyAtomic(outputPath, src, inputPath, size)
	} else {
		chunks, err = t.copyInPlace(outputPath, src, inputPath, size)
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Input: inputPath, Output: outputPath, Bytes: size, Chunks: chunks}
	log.WithFields(logrus.Fields{
		"output": outputPath,
		"bytes":  res.Bytes,
		"chunks": res.Chunks,
	}).Debug("转码完成")
	return res, nil
}

func (t Transcoder) copyInPlace(outputPath string, src io.Reader, inputPath string, size int64) (int, error) {
	dst, err := fsx.Create(outputPath)
	if err != nil {
		return 0, &Error{Kind: KindCreate, Path: outputPath, Err: err}
	}

	chunks, err := t.copy(dst, src, inputPath, outputPath, size)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = &Error{Kind: KindWrite, Path: outputPath, Err: cerr}
	}
	return chunks, err
}

func (t Transcoder) copyAtomic(outputPath string, src io.Reader, inputPath string, size int64) (int, error) {
	dst, err := fsx.CreateAtomic(outputPath)
	if err != nil {
		return 0, &Error{Kind: KindCreate, Path: outputPath, Err: err}
	}

	chunks, err := t.copy(dst, src, inputPath, outputPath, size)
	if err != nil {
		dst.Abort()
		return 0, err
	}
	if err := dst.Commit(); err != nil {
		return 0, &Error{Kind: KindWrite, Path: outputPath, Err: err}
	}
	return chunks, nil
}

func (t Transcoder) copy(dst io.Writer, src io.Reader, inputPath, outputPath string, size int64) (int, error) {
	n := t.ChunkSize
	if n <= 0 {
		n = ChunkSize
	}
	buf := make([]byte, n)

	chunks, err := copyChunks(dst, src, size, buf)
	var ce *chunkError
	if errors.As(err, &ce) {
		if ce.write {
			return chunks, &Error{Kind: KindWrite, Path: outputPath, Err: ce.err}
		}
		return chunks, &Error{Kind: KindRead, Path: inputPath, Err: ce.err}
	}
	return chunks, err
}

// Copy 从 src 精确读取 n 字节，逐块 XOR 后写入 dst，返回写入的字节数。
//
// src 在 n 字节之前结束时返回包装了 io.ErrUnexpectedEOF 的错误。
func Copy(dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, ChunkSize)
	}
	var written int64
	_, err := copyChunksFunc(dst, src, n, buf, func(k int) { written += int64(k) })
	if err != nil {
		var ce *chunkError
		if errors.As(err, &ce) {
			return written, ce.err
		}
		return written, err
	}
	return written, nil
}

// chunkError 标记失败来自读还是写，由调用方映射成带路径的 *Error。
type chunkError struct {
	write bool
	err   error
}

func (e *chunkError) Error() string { return e.err.Error() }
func (e *chunkError) Unwrap() error { return e.err }

func copyChunks(dst io.Writer, src io.Reader, n int64, buf []byte) (int, error) {
	return copyChunksFunc(dst, src, n, buf, nil)
}

func copyChunksFunc(dst io.Writer, src io.Reader, n int64, buf []byte, onChunk func(int)) (int, error) {
	var (
		done   int64
		chunks int
	)
	for done < n {
		k := int64(len(buf))
		if left := n - done; left < k {
			k = left
		}
		chunk := buf[:k]

		// ReadFull 把“短读”与“提前 EOF”统一成错误，不做重试。
		if _, err := io.ReadFull(src, chunk); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return chunks, &chunkError{err: fmt.Errorf("第 %d 字节处：%w", done, err)}
		}
		XOR(chunk)
		if _, err := dst.Write(chunk); err != nil {
			return chunks, &chunkError{write: true, err: fmt.Errorf("第 %d 字节处：%w", done, err)}
		}

		done += k
		chunks++
		if onChunk != nil {
			onChunk(int(k))
		}
	}
	return chunks, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
