package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile_ReadFile(t *testing.T) {
	store := testStore(t)
	path := filepath.Join(t.TempDir(), "nested", "archive.jsonl")

	if err := WriteFile(path, "messages.htm", store); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("Expected temporary file to be gone, stat error = %v", err)
	}

	loaded, info, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if info.Source != "messages.htm" || info.Threads != 2 || info.Messages != 4 {
		t.Errorf("Info = %+v", info)
	}
	assertSameThreads(t, store.Threads(), loaded.Threads())

	if loaded.Occurrences("hello") != store.Occurrences("hello") {
		t.Error("Expected identical statistics after reload")
	}
}

func TestRead_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "x", testStore(t).Threads()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	lines := strings.SplitAfter(buf.String(), "\n")

	tests := []struct {
		name  string
		input string
		isErr error
	}{
		{name: "empty", input: ""},
		{name: "wrong kind", input: `{"kind":"other","version":1}` + "\n", isErr: ErrUnsupportedSnapshot},
		{name: "future version", input: `{"kind":"fbmessage-stats","version":2}` + "\n", isErr: ErrUnsupportedSnapshot},
		{name: "truncated", input: lines[0] + lines[1]},
		{name: "garbage line", input: lines[0] + "{not json\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.isErr != nil && !errors.Is(err, tt.isErr) {
				t.Errorf("Expected %v, got %v", tt.isErr, err)
			}
		})
	}
}

func TestWrite_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "", testStore(t).Threads()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Hello, <world>!") {
		t.Error("Expected message bodies to be written without HTML escaping")
	}
}
