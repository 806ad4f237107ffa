// Package testutil holds helpers shared by cadence tests
package testutil

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/cadence/internal/osutil"
)

var update = flag.Bool("update", false, "update golden files")

// GoldenTest is a test case whose output is compared against a file under
// testdata.
type GoldenTest interface {
	Output() ([]byte, string)
}

// CompareGoldenFile verifies that the output of an operation matches the
// contents of testdata/<name>.golden. Run the tests with -update to rewrite
// the golden files.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		// TODO: normalise CRLF line endings before comparing
		t.Skip("skipping golden file test in Windows")
	}

	output, name := tc.Output()
	f := filepath.Join("testdata", name+".golden")

	if output == nil {
		if _, err := os.Stat(f); err == nil {
			t.Fatalf("expected no output, but golden file exists: %s", f)
		}

		return
	}

	if *update {
		if err := os.MkdirAll("testdata", osutil.DirPermission); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(f, output, osutil.FilePermission); err != nil {
			t.Fatal(err)
		}

		return
	}

	want, err := os.ReadFile(f)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Fatalf("golden file %s is missing, run with -update", f)
		}

		t.Fatal(err)
	}

	if diff := cmp.Diff(lines(want), lines(output)); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", f, diff)
	}
}

func lines(b []byte) []string {
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
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
