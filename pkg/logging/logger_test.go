package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/threadscout/threadscout/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		level  zapcore.Level
		expect bool
	}{
		{
			name:   "json info",
			cfg:    config.LoggingConfig{Level: "INFO", Format: "json"},
			level:  zapcore.InfoLevel,
			expect: true,
		},
		{
			name:   "text debug",
			cfg:    config.LoggingConfig{Level: "DEBUG", Format: "text"},
			level:  zapcore.DebugLevel,
			expect: true,
		},
		{
			name:   "invalid level falls back to info",
			cfg:    config.LoggingConfig{Level: "bogus", Format: "json"},
			level:  zapcore.InfoLevel,
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("InitLogger failed: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
			if got := Logger.Core().Enabled(tt.level); got != tt.expect {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.expect)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	if err := InitLogger(&config.LoggingConfig{Level: "INFO", Format: "json"}); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}

	child := WithComponent("scraper")
	if child == nil {
		t.Fatal("WithComponent returned nil")
	}
}
