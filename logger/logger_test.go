package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestConfigureInvalidLevel(t *testing.T) {
	log := newLogger()
	if err := log.Configure("nope", "json", "stdout", 0); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestConfigureReportLevelAlias(t *testing.T) {
	log := newLogger()
	if err := log.Configure("report", "json", "stdout", 0); err != nil {
		t.Fatalf("report level should be accepted: %v", err)
	}
	if got := log.GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	log := newLogger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestJSONOutputCarriesComponent(t *testing.T) {
	log := newLogger()
	if err := log.Configure("info", "json", "stdout", 0); err != nil {
		t.Fatalf("configure: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithComponent("report").WithFields(Fields{"rows": 3}).Info("funding rates ready")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "report" {
		t.Errorf("missing component field: %v", entry)
	}
	if entry["message"] != "funding rates ready" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
}

func TestWarnAndErrorCounters(t *testing.T) {
	log := newLogger()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithComponent("counter-test").Warn("w")
	log.WithComponent("counter-test").Error("e")
	log.WithComponent("counter-test").Error("e")

	v, ok := componentStats.Load("counter-test")
	if !ok {
		t.Fatal("no counters recorded")
	}
	stat := v.(*componentStat)
	if got := atomic.LoadInt64(&stat.warns); got != 1 {
		t.Errorf("warns = %d, want 1", got)
	}
	if got := atomic.LoadInt64(&stat.errors); got != 2 {
		t.Errorf("errors = %d, want 2", got)
	}
}

func TestLogDuration(t *testing.T) {
	log := newLogger()
	if err := log.Configure("info", "json", "stdout", 0); err != nil {
		t.Fatalf("configure: %v", err)
	}
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.LogDuration("report", "funding_rates", 42*time.Millisecond, Fields{"rows": 10})

	out := buf.String()
	if !strings.Contains(out, "duration_ms") || !strings.Contains(out, "funding_rates") {
		t.Errorf("duration entry missing fields: %s", out)
	}
}
