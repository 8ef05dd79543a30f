package posfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenPairEqualLength(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTemp(t, dir, "a", []byte("hello world"))
	p2 := writeTemp(t, dir, "b", []byte("HELLO WORLD"))

	a, b, length, err := OpenPair(p1, p2)
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	assert.Equal(t, int64(11), length)
	assert.Equal(t, int64(11), a.Size())
	assert.Equal(t, int64(11), b.Size())
}

func TestOpenPairLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTemp(t, dir, "a", []byte("short"))
	p2 := writeTemp(t, dir, "b", []byte("much longer content"))

	_, _, _, err := OpenPair(p1, p2)
	assert.ErrorContains(t, err, "must be equal length")
}

func TestReadAtAndWriteAllAtRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a", []byte("0123456789"))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.WriteAllAt([]byte("XYZ"), 3))

	got := make([]byte, 10)
	_, err = f.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, "012XYZ6789", string(got))
}

func TestConcurrentReadAtNoSharedCursor(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i)
	}
	path := writeTemp(t, dir, "a", data)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	bufA := make([]byte, 10)
	bufB := make([]byte, 10)
	_, errA := f.ReadAt(bufA, 500)
	_, errB := f.ReadAt(bufB, 0)
	require.NoError(t, errA)
	require.NoError(t, errB)

	assert.Equal(t, data[500:510], bufA)
	assert.Equal(t, data[0:10], bufB)
}

func TestReaderStreamsFullContent(t *testing.T) {
	dir := t.TempDir()
	data := []byte("the quick brown fox jumps over the lazy dog")
	path := writeTemp(t, dir, "a", data)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f.Reader())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestOffsetReaderRespectsBounds(t *testing.T) {
	dir := t.TempDir()
	data := []byte("0123456789")
	path := writeTemp(t, dir, "a", data)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := NewOffsetReader(f, 3, 4)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("3456"), got)
}
