package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

var csvHeader = []string{"question", "answer"}

// CSVWriter appends extracted pairs to a CSV file one chunk at a time, so
// partial progress survives a crash partway through a long extraction run.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Append writes pairs to the file. For the first chunk the file is truncated
// and the question,answer header written; later chunks append rows only.
func (w *CSVWriter) Append(pairs []QAPair, firstChunk bool) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if firstChunk {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(w.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", w.path, err)
	}

	cw := csv.NewWriter(f)
	if firstChunk {
		if err := cw.Write(csvHeader); err != nil {
			f.Close()
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, pair := range pairs {
		if err := cw.Write([]string{pair.Question, pair.Answer}); err != nil {
			f.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Int("pairs", len(pairs)).Str("path", w.path).Msg("Saved Q&A pairs to CSV")
	return nil
}
