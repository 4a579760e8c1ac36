package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gobqlint/pkg/fsutil"
)

func FuzzDecodeLatin1(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("SELECT 1;\n"))
	f.Add([]byte{0xe9, 0xff, 0x00})

	f.Fuzz(func(t *testing.T, content []byte) {
		got, err := fsutil.Decode(content, fsutil.EncodingLatin1)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		// Every latin-1 byte maps to exactly one rune.
		if n := len([]rune(got)); n != len(content) {
			t.Errorf("rune count mismatch: got %d, want %d", n, len(content))
		}
	})
}

func FuzzReadFileCheckModified(f *testing.F) {
	// Add seed corpus.
	f.Add([]byte("hello"))
	f.Add([]byte("hello\nworld\n"))
	f.Add([]byte(""))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.txt")

		// Write initial content.
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		ctx := context.Background()

		// Read file.
		got, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}

		// Verify content.
		if len(got) != len(content) {
			t.Errorf("content length mismatch: got %d, want %d", len(got), len(content))
		}

		// Check should report not modified.
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			t.Fatalf("CheckModified failed: %v", err)
		}

		if modified {
			t.Error("file should not be reported as modified")
		}
	})
}
