package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"quantScope/internal/model"
)

// JsonlQuoteLog appends issued quotes to a JSONL file for audit and replay.
type JsonlQuoteLog struct {
	path string
	mu   sync.Mutex
}

func NewJsonlQuoteLog(path string) *JsonlQuoteLog {
	return &JsonlQuoteLog{path: path}
}

// PutQuotes appends a batch of quotes as JSON lines.
func (s *JsonlQuoteLog) PutQuotes(quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, quote := range quotes {
		line, err := json.Marshal(quote)
		if err != nil {
			return fmt.Errorf("marshal quote: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write quote: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
