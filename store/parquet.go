// Package store writes finished matches to Parquet for offline analysis.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const (
	turnSchema  = "salvo_turn_v1"
	matchSchema = "salvo_match_v1"
)

// TurnRow is one shot in a match.
//
// ShipID is -1 unless the shot destroyed a ship. Row and Col are the point the
// attacker asked for, which may lie off the grid when Valid is false.
type TurnRow struct {
	MatchID   string `parquet:"match_id,dict"`
	Turn      int32  `parquet:"turn"`
	Attacker  string `parquet:"attacker,dict"`
	Defender  string `parquet:"defender,dict"`
	Row       int32  `parquet:"row"`
	Col       int32  `parquet:"col"`
	Valid     bool   `parquet:"valid"`
	Hit       bool   `parquet:"hit"`
	Destroyed bool   `parquet:"destroyed"`
	ShipID    int32  `parquet:"ship_id"`
	ShipName  string `parquet:"ship_name,dict,optional"`
}

// MatchRow summarises a single match. Winner is empty when the match was
// aborted, in which case Error says why.
type MatchRow struct {
	MatchID    string  `parquet:"match_id,dict"`
	Rows       int32   `parquet:"rows"`
	Cols       int32   `parquet:"cols"`
	Ships      int32   `parquet:"ships"`
	PlayerA    string  `parquet:"player_a,dict"`
	PlayerB    string  `parquet:"player_b,dict"`
	Winner     string  `parquet:"winner,dict,optional"`
	Turns      int32   `parquet:"turns"`
	ShotsA     int32   `parquet:"shots_a"`
	HitsA      int32   `parquet:"hits_a"`
	WastedA    int32   `parquet:"wasted_a"`
	AccuracyA  float64 `parquet:"accuracy_a"`
	ShotsB     int32   `parquet:"shots_b"`
	HitsB      int32   `parquet:"hits_b"`
	WastedB    int32   `parquet:"wasted_b"`
	AccuracyB  float64 `parquet:"accuracy_b"`
	StartedAt  int64   `parquet:"started_at_ms"`
	DurationMs int64   `parquet:"duration_ms"`
	Error      string  `parquet:"error,optional"`
}

// WriteTurnsParquet writes rows to outPath via a temp file and rename.
func WriteTurnsParquet(outPath string, rows []TurnRow) error {
	return writeAtomic(outPath, rows, turnSchema)
}

// WriteMatchesParquet writes match summaries to outPath via a temp file and rename.
func WriteMatchesParquet(outPath string, rows []MatchRow) error {
	return writeAtomic(outPath, rows, matchSchema)
}

// WriteMatchesBatchAtomic writes summaries into outDir/tmp and then moves the
// finished file into outDir, so readers never see a partial file.
func WriteMatchesBatchAtomic(outDir string, rows []MatchRow) (string, error) {
	st, err := stage(outDir, "matches")
	if err != nil {
		return "", err
	}
	if err := writeStaged(st, rows, matchSchema); err != nil {
		return "", err
	}
	return st.final, nil
}

func writeAtomic[T any](outPath string, rows []T, schema string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return writeStaged(staged{tmp: outPath + ".tmp", final: outPath}, rows, schema)
}

func writeStaged[T any](st staged, rows []T, schema string) error {
	_ = os.Remove(st.tmp)
	if err := parquet.WriteFile(st.tmp, rows, writerOptions(schema)...); err != nil {
		st.discard()
		return fmt.Errorf("write parquet: %w", err)
	}
	return st.publish()
}

// writerOptions is shared by every file this package writes.
func writerOptions(schema string) []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	}
}

// staged is a file written at tmp and published by renaming it to final.
type staged struct {
	tmp   string
	final string
}

// stage names a new batch file in outDir with its temp copy under outDir/tmp.
// The name carries a uuid fragment so batches started in the same nanosecond
// do not collide.
func stage(outDir, prefix string) (staged, error) {
	if outDir == "" {
		return staged{}, errors.New("outDir is required")
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}
	tmpDir := filepath.Join(abs, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return staged{}, fmt.Errorf("create tmp dir: %w", err)
	}
	name := fmt.Sprintf("%s_%d_%s.parquet", prefix, time.Now().UnixNano(), uuid.NewString()[:8])
	return staged{tmp: filepath.Join(tmpDir, name), final: filepath.Join(abs, name)}, nil
}

func (s staged) publish() error {
	if err := os.Rename(s.tmp, s.final); err != nil {
		s.discard()
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

func (s staged) discard() { _ = os.Remove(s.tmp) }

// ReadTurns loads every turn row from a file written by this package.
func ReadTurns(path string) ([]TurnRow, error) {
	return readAll[TurnRow](path)
}

// ReadMatches loads every match summary from a file written by this package.
func ReadMatches(path string) ([]MatchRow, error) {
	return readAll[MatchRow](path)
}

func readAll[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}
