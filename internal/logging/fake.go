package logging

import (
	"context"
	"sync"
)

// Entry 紀錄一次 FakeLogger 呼叫
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// FakeLogger 收集日誌供測試驗證
type FakeLogger struct {
	mu      sync.Mutex
	Entries []Entry
}

func (f *FakeLogger) append(level, msg string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, Entry{Level: level, Msg: msg, Args: args})
}

func (f *FakeLogger) Info(ctx context.Context, msg string, args ...any) {
	f.append("INFO", msg, args...)
}

func (f *FakeLogger) Warn(ctx context.Context, msg string, args ...any) {
	f.append("WARN", msg, args...)
}

func (f *FakeLogger) Error(ctx context.Context, msg string, args ...any) {
	f.append("ERROR", msg, args...)
}

func (f *FakeLogger) With(args ...any) Logger { return f }

// Last 回傳最後一筆紀錄，無紀錄時回傳 nil
func (f *FakeLogger) Last() *Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Entries) == 0 {
		return nil
	}
	return &f.Entries[len(f.Entries)-1]
}
