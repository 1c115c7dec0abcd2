package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn", FormatText)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("source truncated", String("source", "whois"), Int("cost", 42))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages written: %q", out)
	}
	for _, want := range []string{"source truncated", "source=whois", "cost=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "debug", FormatJSON).With(String("entity", "1.2.3.4"))

	log.Error("submit failed", Err(errors.New("disk full")), Bool("partial", true), Duration("elapsed", time.Second))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "submit failed" || rec["entity"] != "1.2.3.4" || rec["error"] != "disk full" || rec["partial"] != true {
		t.Errorf("record = %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := ParseLevel(in); got != want {
				t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Error("nothing happens")
	log.With(String("k", "v")).Info("still nothing")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.RecordSource(100, i%2 == 0)
			m.RecordSubmission(i != 0)
		}(i)
	}
	wg.Wait()
	m.RecordBins(3)
	m.RecordEntity(true)
	m.RecordEntity(false)

	got := m.Snapshot()
	want := MetricsSnapshot{
		Entities:          2,
		EntityFailures:    1,
		SourcesFlattened:  10,
		SourcesTruncated:  5,
		BinsPacked:        3,
		ChunksSubmitted:   9,
		SubmitFailures:    1,
		CharactersPlanned: 1000,
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordSource(1, true)
	m.RecordSubmission(true)
	if m.Snapshot() != (MetricsSnapshot{}) {
		t.Error("nil metrics should report zeros")
	}
}
