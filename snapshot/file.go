package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/model"
)

const (
	fileKind    = "fbmessage-stats"
	fileVersion = 1
)

var ErrUnsupportedSnapshot = errors.New("unsupported snapshot file")

type fileHeader struct {
	Kind      string    `json:"kind"`
	Version   int       `json:"version"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Threads   int       `json:"threads"`
}

type threadRecord struct {
	Participants string          `json:"participants"`
	Messages     []messageRecord `json:"messages"`
}

type messageRecord struct {
	Sender    string     `json:"sender"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	SentAtRaw string     `json:"sent_at_raw"`
	Body      string     `json:"body"`
}

// WriteFile stores the threads of s at path, replacing any existing file.
func WriteFile(path, source string, s *archive.Store) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}

	writer := bufio.NewWriterSize(file, 64*1024)
	if err := Write(writer, source, s.Threads()); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush snapshot file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Write encodes a header line followed by one line per thread.
func Write(w io.Writer, source string, threads []model.Thread) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := fileHeader{
		Kind:      fileKind,
		Version:   fileVersion,
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Threads:   len(threads),
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("encode snapshot header: %w", err)
	}

	for i, t := range threads {
		if err := enc.Encode(toRecord(t)); err != nil {
			return fmt.Errorf("encode thread %d: %w", i, err)
		}
	}
	return nil
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (*archive.Store, Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	threads, info, err := Read(file)
	if err != nil {
		return nil, Info{}, err
	}
	return archive.New(threads), info, nil
}

// Read decodes a snapshot stream.
func Read(r io.Reader) ([]model.Thread, Info, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, Info{}, fmt.Errorf("read snapshot header: %w", err)
		}
		return nil, Info{}, fmt.Errorf("read snapshot header: %w", io.ErrUnexpectedEOF)
	}

	var header fileHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, Info{}, fmt.Errorf("parse snapshot header: %w", err)
	}
	if header.Kind != fileKind || header.Version != fileVersion {
		return nil, Info{}, fmt.Errorf("%w: kind %q version %d", ErrUnsupportedSnapshot, header.Kind, header.Version)
	}

	threads := make([]model.Thread, 0, header.Threads)
	messages := 0
	for line := 2; scanner.Scan(); line++ {
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var record threadRecord
		if err := json.Unmarshal(text, &record); err != nil {
			return nil, Info{}, fmt.Errorf("parse snapshot line %d: %w", line, err)
		}
		t := fromRecord(record)
		messages += t.Len()
		threads = append(threads, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, Info{}, fmt.Errorf("read snapshot: %w", err)
	}

	if len(threads) != header.Threads {
		return nil, Info{}, fmt.Errorf("snapshot truncated: header announces %d threads, found %d", header.Threads, len(threads))
	}

	info := Info{
		Source:    header.Source,
		CreatedAt: header.CreatedAt,
		Threads:   len(threads),
		Messages:  messages,
	}
	return threads, info, nil
}

func toRecord(t model.Thread) threadRecord {
	record := threadRecord{
		Participants: t.Participants,
		Messages:     make([]messageRecord, 0, t.Len()),
	}
	for _, m := range t.Messages {
		mr := messageRecord{
			Sender:    m.Sender,
			SentAtRaw: m.SentAtRaw,
			Body:      m.Body,
		}
		if m.HasSentAt() {
			sentAt := m.SentAt
			mr.SentAt = &sentAt
		}
		record.Messages = append(record.Messages, mr)
	}
	return record
}

func fromRecord(record threadRecord) model.Thread {
	t := model.Thread{
		Participants: record.Participants,
		Messages:     make([]model.Message, 0, len(record.Messages)),
	}
	for _, mr := range record.Messages {
		var stored time.Time
		if mr.SentAt != nil {
			stored = *mr.SentAt
		}
		t.Messages = append(t.Messages, model.Message{
			Sender:    mr.Sender,
			SentAt:    restoreSentAt(mr.SentAtRaw, stored),
			SentAtRaw: mr.SentAtRaw,
			Body:      mr.Body,
		})
	}
	return t
}
