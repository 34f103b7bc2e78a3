package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// installExtension writes an fsc-<name> shell script in a directory added to the PATH.
func installExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fsc-"+name), []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRunExtension(t *testing.T) {
	installExtension(t, "hello", `
echo "FSC_TRANSACTIONS_FILE=$FSC_TRANSACTIONS_FILE"
echo "FSC_CURRENCY=$FSC_CURRENCY"
echo "FSC_VERBOSE=$FSC_VERBOSE"
echo "args=$*"
`)
	out := captureStdout(t)
	setGlobal(t, transactionsFile, "/tmp/ledger.jsonl")
	setGlobal(t, defaultCurrency, "EUR")

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 0 {
		t.Fatalf("RunExtension() = %v, %d, want true, 0", found, code)
	}
	for _, want := range []string{
		"FSC_TRANSACTIONS_FILE=/tmp/ledger.jsonl",
		"FSC_CURRENCY=EUR",
		"FSC_VERBOSE=false",
		"args=a b",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRunExtension_ExitCode(t *testing.T) {
	installExtension(t, "fail", "exit 3\n")
	captureStdout(t)
	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension() = %v, %d, want true, 3", found, code)
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	if found, _ := RunExtension("does-not-exist-anywhere", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}

// captureStdout redirects the output of the commands for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	old := stdout
	stdout = &b
	t.Cleanup(func() { stdout = old })
	return &b
}

// setGlobal sets a global flag for the duration of the test.
func setGlobal(t *testing.T, flag *string, value string) {
	t.Helper()
	old := *flag
	*flag = value
	t.Cleanup(func() { *flag = old })
}
