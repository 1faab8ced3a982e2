package domain

import (
	"time"
)

const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Report 是一次运行的对外输出（stdout 非 TTY 时输出为单个 JSON）。
type Report struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Atomic bool   `json:"atomic"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	Bytes     int64  `json:"bytes"`
	Chunks    int    `json:"chunks"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Finalize 把时间统一为 UTC（JSON 为 RFC3339 且后缀 Z），并按错误信息补全 Status。
func (r *Report) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.ErrorCode != "" || r.ErrorMsg != "" {
		r.Status = StatusFailed
	} else {
		r.Status = StatusDone
	}
}

// Duration 返回本次运行耗时。
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
