package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("SALVO_TEST_STR", "good")
	t.Setenv("SALVO_TEST_INT", " 42 ")
	t.Setenv("SALVO_TEST_BAD_INT", "forty")
	t.Setenv("SALVO_TEST_SEED", "9000000000")
	t.Setenv("SALVO_TEST_DUR", "250ms")
	t.Setenv("SALVO_TEST_BOOL", "YES")
	t.Setenv("SALVO_TEST_FALSE", "nah")

	if got := String("SALVO_TEST_STR", "awful"); got != "good" {
		t.Fatalf("String=%q want=good", got)
	}
	if got := String("SALVO_TEST_UNSET", "awful"); got != "awful" {
		t.Fatalf("String default=%q want=awful", got)
	}
	if got := Int("SALVO_TEST_INT", 1); got != 42 {
		t.Fatalf("Int=%d want=42", got)
	}
	if got := Int("SALVO_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("Int bad=%d want=7", got)
	}
	if got := Int64("SALVO_TEST_SEED", 0); got != 9000000000 {
		t.Fatalf("Int64=%d", got)
	}
	if got := Duration("SALVO_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("Duration=%s", got)
	}
	if got := Duration("SALVO_TEST_STR", time.Second); got != time.Second {
		t.Fatalf("Duration bad=%s want=1s", got)
	}
	if !Bool("SALVO_TEST_BOOL", false) || Bool("SALVO_TEST_FALSE", true) || !Bool("SALVO_TEST_UNSET", true) {
		t.Fatalf("Bool fallbacks wrong")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SALVO_LOAD_NEW=from-file\nSALVO_LOAD_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("SALVO_LOAD_SET", "from-env")
	t.Setenv("SALVO_LOAD_NEW", "")
	os.Unsetenv("SALVO_LOAD_NEW")

	if err := Load(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("SALVO_LOAD_NEW"); got != "from-file" {
		t.Fatalf("SALVO_LOAD_NEW=%q want=from-file", got)
	}
	if got := os.Getenv("SALVO_LOAD_SET"); got != "from-env" {
		t.Fatalf("SALVO_LOAD_SET=%q want=from-env", got)
	}
}
