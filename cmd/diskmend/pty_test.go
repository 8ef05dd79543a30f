package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/hinshun/vt10x"
	"github.com/stretchr/testify/require"
)

// buildBinary compiles the diskmend binary once for the PTY-driven tests
// in this file, the same "drive the real compiled tool" approach
// cmd/zeta's own integration tests use against a built zeta binary.
func buildBinary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	binPath := filepath.Join(dir, "diskmend")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "go build: %s", out)
	return binPath
}

// twoFiles writes a pair of equal-length files with a single differing
// byte at offset 5, the scenario spec.md §8 names as scenario 2.
func twoFiles(t *testing.T) (path1, path2 string) {
	t.Helper()
	dir := t.TempDir()
	data1 := make([]byte, 64)
	data2 := make([]byte, 64)
	data2[5] = 0xff

	path1 = filepath.Join(dir, "a.bin")
	path2 = filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(path1, data1, 0o600))
	require.NoError(t, os.WriteFile(path2, data2, 0o600))
	return path1, path2
}

// TestInteractiveQuitClean drives the compiled binary inside a real
// pseudo-terminal, waits for the diff view's status line to render, and
// quits with no pending classifications — spec.md §4.5's "q: if any
// classifications exist, push the quit-confirmation popup; else request
// exit" (no-classifications branch).
func TestInteractiveQuitClean(t *testing.T) {
	binPath := buildBinary(t)
	path1, path2 := twoFiles(t)

	console, _, err := vt10x.NewVT10XConsole(expect.WithDefaultTimeout(5 * time.Second))
	require.NoError(t, err)
	defer console.Close()

	cmd := exec.Command(binPath, path1, path2)
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	require.NoError(t, cmd.Start())

	_, err = console.ExpectString("pos=")
	require.NoError(t, err)

	_, err = console.Send("q")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("diskmend did not exit after quit")
	}
}
