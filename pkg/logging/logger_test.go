package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tuiter/tuiter/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"json format", "json", "INFO"},
		{"text format", "text", "DEBUG"},
		{"bad level falls back", "json", "not-a-level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if GetLogger() == nil {
				t.Fatal("GetLogger() returned nil after init")
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	encoderConfig := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)

	oldLogger := Logger
	Logger = zap.New(core)
	defer func() { Logger = oldLogger }()

	WithComponent("follow-graph").Info("test message", zap.Int64("user", 42))

	var logObj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logObj); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if logObj["msg"] != "test message" {
		t.Errorf("Expected message 'test message', got: %v", logObj["msg"])
	}
	if logObj["component"] != "follow-graph" {
		t.Errorf("Expected component 'follow-graph', got: %v", logObj["component"])
	}
	if logObj["user"] != float64(42) {
		t.Errorf("Expected field 'user'=42, got: %v", logObj["user"])
	}
}
