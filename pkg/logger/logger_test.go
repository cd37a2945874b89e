package logger

import (
	"testing"

	"lms_backend/internal/config"
)

func TestRotatingWriterDefaults(t *testing.T) {
	w := newRotatingWriter(config.LogConfig{})
	if w.Filename != "logs/lms.log" {
		t.Fatalf("expected default filename, got %q", w.Filename)
	}
	if w.MaxSize != 100 || w.MaxBackups != 5 || w.MaxAge != 30 {
		t.Fatalf("unexpected rotation defaults: %+v", w)
	}
}

func TestRotatingWriterFromConfig(t *testing.T) {
	w := newRotatingWriter(config.LogConfig{
		File:       "/var/log/lms/api.log",
		MaxSizeMB:  10,
		MaxBackups: 2,
		MaxAgeDays: 7,
	})
	if w.Filename != "/var/log/lms/api.log" || w.MaxSize != 10 || w.MaxBackups != 2 || w.MaxAge != 7 {
		t.Fatalf("config values not applied: %+v", w)
	}
}
