package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/adf2mp3/internal/naming"
)

const (
	// ErrCodeArgsInvalid 表示位置参数数量不对（缺少输入或多于两个）。
	ErrCodeArgsInvalid = "args_invalid"
	// ErrCodeNameInvalid 表示无法从输入路径推导输出文件名。
	ErrCodeNameInvalid = "name_invalid"
	// ErrCodeLogFormatInvalid 表示 --log-format 取值不合法。
	ErrCodeLogFormatInvalid = "log_format_invalid"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// CLIArgs 是命令行的原始输入（位置参数 + flag），不做任何默认值处理。
type CLIArgs struct {
	Args []string

	Atomic    bool
	Verbose   bool
	LogFormat string
}

// EffectiveConfig 是校验并补全默认值后的最终配置（实现层直接消费，不再做二次判断）。
type EffectiveConfig struct {
	Input  string
	Output string
	// OutputDerived=true 表示 Output 由输入文件名推导而来（用户没有显式指定）。
	OutputDerived bool

	Atomic    bool
	Verbose   bool
	LogFormat string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Resolve 把 CLI 输入合并为 EffectiveConfig。
//
// 规则（固定）：
// - 1 个位置参数：输出名由输入名推导（替换最后一个扩展名为 .mp3）
// - 2 个位置参数：输入、输出都显式指定
// - 0 个或多于 2 个：ErrCodeArgsInvalid（0 个参数的“打印帮助”由 CLI 层提前处理）
// - log format：默认 text
func Resolve(cli CLIArgs) (EffectiveConfig, error) {
	switch n := len(cli.Args); {
	case n == 0:
		return EffectiveConfig{}, &Error{Code: ErrCodeArgsInvalid, Err: fmt.Errorf("缺少输入文件")}
	case n > 2:
		return EffectiveConfig{}, &Error{Code: ErrCodeArgsInvalid, Err: fmt.Errorf("最多两个参数（input_file [output_file]），实际 %d 个", n)}
	}

	logFormat := strings.ToLower(strings.TrimSpace(cli.LogFormat))
	switch logFormat {
	case "":
		logFormat = LogFormatText
	case LogFormatText, LogFormatJSON:
		// ok
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeLogFormatInvalid, Err: fmt.Errorf("--log-format 只能是 text 或 json，实际是 %q", cli.LogFormat)}
	}

	eff := EffectiveConfig{
		Input:     cli.Args[0],
		Atomic:    cli.Atomic,
		Verbose:   cli.Verbose,
		LogFormat: logFormat,
	}
	if eff.Input == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeArgsInvalid, Err: fmt.Errorf("输入文件不能为空")}
	}

	if len(cli.Args) == 2 && cli.Args[1] != "" {
		eff.Output = cli.Args[1]
		return eff, nil
	}

	out, err := naming.DefaultOutputName(eff.Input)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeNameInvalid, Err: err}
	}
	eff.Output = out
	eff.OutputDerived = true
	return eff, nil
}
