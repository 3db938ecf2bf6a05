// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ayoisaiah/autoblock/internal/osutil"
)

// CompareGoldenFile checks output against testdata/<name>.golden. Run the
// tests with -update to rewrite the golden files.
func CompareGoldenFile(t *testing.T, name string, output []byte) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		// TODO: golden files use LF line endings; normalise output first.
		t.Skip("skipping golden file test in Windows")
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir("testdata"),
	)

	g.Assert(t, name, output)
}

// CopyFile copies the fixture at src into dir and returns the new path.
func CopyFile(t *testing.T, src, dir string) string {
	t.Helper()

	dst := filepath.Join(dir, filepath.Base(src))

	if err := copyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	return dst
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}
