package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestReport_Finalize_StatusAndUTC(t *testing.T) {
	r := Report{
		Input:      "song.adf",
		Output:     "song.mp3",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Bytes:      3,
		Chunks:     1,
	}

	r.Finalize()

	if r.Status != StatusDone {
		t.Fatalf("期望 status=%q，实际 %q", StatusDone, r.Status)
	}
	if r.Duration() != time.Second {
		t.Fatalf("耗时不正确：%v", r.Duration())
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	// time.Time 在 UTC 下应输出 'Z' 后缀。
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestReport_Finalize_Failed(t *testing.T) {
	r := Report{Input: "nope.adf", ErrorCode: "open_failed", ErrorMsg: "x"}
	r.Finalize()
	if r.Status != StatusFailed {
		t.Fatalf("期望 status=%q，实际 %q", StatusFailed, r.Status)
	}
}
