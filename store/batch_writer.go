package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// BatchWriter streams the turn rows of many matches into one Parquet file.
// Rows land in a temp file under outDir/tmp; Finalize publishes it into
// outDir, or drops it when nothing was written. A finalized writer rejects
// further matches.
type BatchWriter struct {
	file   staged
	f      *os.File
	writer *parquet.GenericWriter[TurnRow]

	rows    int
	matches int
}

func NewBatchWriter(outDir string) (*BatchWriter, error) {
	st, err := stage(outDir, "turns")
	if err != nil {
		return nil, err
	}
	f, err := os.Create(st.tmp)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}
	return &BatchWriter{
		file:   st,
		f:      f,
		writer: parquet.NewGenericWriter[TurnRow](f, writerOptions(turnSchema)...),
	}, nil
}

func (b *BatchWriter) TmpPath() string      { return b.file.tmp }
func (b *BatchWriter) OutPath() string      { return b.file.final }
func (b *BatchWriter) BufferedMatches() int { return b.matches }
func (b *BatchWriter) BufferedRows() int    { return b.rows }

// WriteMatch appends the turn rows of one finished match. An empty match is
// not counted.
func (b *BatchWriter) WriteMatch(rows []TurnRow) error {
	if b.writer == nil {
		return errors.New("batch writer is finalized")
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := b.writer.Write(rows); err != nil {
		return fmt.Errorf("write turns: %w", err)
	}
	b.rows += len(rows)
	b.matches++
	return nil
}

// Finalize closes the file and publishes it. outPath is empty when no rows
// were written or the writer was already finalized.
func (b *BatchWriter) Finalize() (outPath string, rows int, matches int, err error) {
	if b.writer == nil {
		return "", 0, 0, nil
	}
	w, f := b.writer, b.f
	b.writer, b.f = nil, nil

	if err := w.Close(); err != nil {
		_ = f.Close()
		b.file.discard()
		return "", 0, 0, fmt.Errorf("close parquet writer: %w", err)
	}
	_ = f.Sync()
	if err := f.Close(); err != nil {
		b.file.discard()
		return "", 0, 0, fmt.Errorf("close parquet file: %w", err)
	}

	if b.rows == 0 {
		b.file.discard()
		return "", 0, 0, nil
	}
	if err := b.file.publish(); err != nil {
		return "", 0, 0, err
	}
	return b.file.final, b.rows, b.matches, nil
}
