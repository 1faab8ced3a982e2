package logx

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options 控制 CLI 日志输出。
type Options struct {
	Verbose bool
	// Format 取值 "text" 或 "json"；其他值按 text 处理（合法性由 config 层校验）。
	Format string
	// Out 为 nil 时写 stderr，stdout 留给结果输出。
	Out io.Writer
}

// New 创建独立的 logrus.Logger（不修改全局 logger）。
func New(opts Options) *logrus.Logger {
	l := logrus.New()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: !opts.Verbose,
		})
	}

	if opts.Verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
