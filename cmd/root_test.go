package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/config"
)

func TestArchiveArg(t *testing.T) {
	tests := []struct {
		name       string
		annotation string
		args       []string
		want       string
	}{
		{name: "default first argument", args: []string{"messages.htm"}, want: "messages.htm"},
		{name: "no arguments", args: nil, want: ""},
		{name: "second argument", annotation: "1", args: []string{"hello", "messages.htm"}, want: "messages.htm"},
		{name: "second argument missing", annotation: "1", args: []string{"hello"}, want: ""},
		{name: "no archive argument", annotation: "-1", args: []string{"some-id"}, want: ""},
		{name: "bad annotation", annotation: "x", args: []string{"messages.htm"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			if tt.annotation != "" {
				cmd.Annotations = map[string]string{annotationArchiveArg: tt.annotation}
			}
			if got := archiveArg(cmd, tt.args); got != tt.want {
				t.Errorf("archiveArg() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("héllo wörld", 8); got != "héllo..." {
		t.Errorf("truncate() = %q, want %q", got, "héllo...")
	}
}

func TestSetupLogger(t *testing.T) {
	dir := t.TempDir()
	l, cleanup, err := setupLogger(config.Config{LogLevel: "warn", LogDir: dir})
	if err != nil {
		t.Fatalf("setupLogger() error = %v", err)
	}
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be disabled at warn level")
	}
	l.Warn("archive built", "threads", 2)
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Expected one log file, got %v, %v", entries, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "archive built") {
		t.Errorf("Expected log file to contain the record, got %q", data)
	}

	if _, _, err := setupLogger(config.Config{LogLevel: "loud"}); err == nil {
		t.Error("Expected error for unknown level")
	}
}
