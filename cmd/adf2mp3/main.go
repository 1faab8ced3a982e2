package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/John-Robertt/adf2mp3/internal/config"
	"github.com/John-Robertt/adf2mp3/internal/domain"
	"github.com/John-Robertt/adf2mp3/internal/infra/logx"
	"github.com/John-Robertt/adf2mp3/internal/naming"
	"github.com/John-Robertt/adf2mp3/internal/transcode"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	programName = "adf2mp3"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError 表示参数错误：打印用法并以 exitUsage 退出。
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// runError 表示已经输出过报告的运行失败。
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	red := color.New(color.FgRed).FprintlnFunc()
	var ue *usageError
	if errors.As(err, &ue) {
		red(stderr, "参数错误："+ue.Error())
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}
	red(stderr, "错误："+err.Error())
	return exitFailed
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cli config.CLIArgs

	cmd := &cobra.Command{
		Use:   programName + " <input_file> [output_file]",
		Short: "把 GTA Vice City 的 ADF 音频还原为 MP3",
		Long: `把 GTA Vice City 的 ADF 音频还原为 MP3。

ADF 是每个字节都与 34（0x22）做过 XOR 的 MP3；本工具逐块做同样的 XOR 还原。
未指定 output_file 时，使用输入文件名并把最后一个扩展名替换为 .mp3。
目标文件已存在时会被覆盖；失败时可能留下不完整的目标文件（--atomic 除外）。`,
		Example: "  " + programName + " FLASH.adf\n  " + programName + " Audio/WILD.adf wild.mp3",
		Args:    cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cli.Args = args

			eff, err := config.Resolve(cli)
			if err != nil {
				if config.Code(err) == config.ErrCodeNameInvalid {
					return fail(stdout, stderr, domain.Report{Input: args[0], StartedAt: time.Now()}, err)
				}
				return &usageError{err: err}
			}
			return runTranscode(stdout, stderr, eff)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.BoolVar(&cli.Atomic, "atomic", false, "先写同目录临时文件，成功后再替换目标（失败不留残缺文件）")
	flags.BoolVarP(&cli.Verbose, "verbose", "v", false, "输出调试日志")
	flags.StringVar(&cli.LogFormat, "log-format", config.LogFormatText, "日志格式：text|json")
	return cmd
}

func runTranscode(stdout, stderr io.Writer, eff config.EffectiveConfig) error {
	log := logx.New(logx.Options{Verbose: eff.Verbose, Format: eff.LogFormat, Out: stderr})
	if eff.OutputDerived {
		log.WithField("output", eff.Output).Debug("未指定输出文件，使用推导出的文件名")
	}

	rr := domain.Report{
		Input:     eff.Input,
		Output:    eff.Output,
		Atomic:    eff.Atomic,
		StartedAt: time.Now(),
	}

	tc := transcode.Transcoder{Atomic: eff.Atomic, Logger: log}
	res, err := tc.Transcode(eff.Input, eff.Output)
	if err != nil {
		return fail(stdout, stderr, rr, err)
	}

	rr.Bytes = res.Bytes
	rr.Chunks = res.Chunks
	rr.FinishedAt = time.Now()
	rr.Finalize()
	emitReport(stdout, stderr, rr)
	return nil
}

func fail(stdout, stderr io.Writer, rr domain.Report, err error) error {
	rr.FinishedAt = time.Now()
	rr.ErrorCode = errorCode(err)
	rr.ErrorMsg = err.Error()
	rr.Finalize()
	if !isTTY(stdout) {
		// stdout 非 TTY：失败时同样输出报告，便于脚本判断原因。
		_ = json.NewEncoder(stdout).Encode(rr)
	}
	return &runError{err: err}
}

func errorCode(err error) string {
	if c := transcode.Code(err); c != "" {
		return c
	}
	var ie *naming.InvalidNameError
	if errors.As(err, &ie) {
		return config.ErrCodeNameInvalid
	}
	return config.Code(err)
}

func emitReport(stdout, stderr io.Writer, rr domain.Report) {
	summary := fmt.Sprintf("完成：%s -> %s（%d 字节，耗时 %s）",
		rr.Input, rr.Output, rr.Bytes, rr.Duration().Round(time.Millisecond))

	if isTTY(stdout) {
		fmt.Fprintln(stdout, summary)
		return
	}

	// stdout 非 TTY：stdout 只输出一个 Report JSON，摘要走 stderr。
	_ = json.NewEncoder(stdout).Encode(rr)
	fmt.Fprintln(stderr, summary)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
