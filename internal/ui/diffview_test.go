package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diskmend/diskmend/internal/app"
	"github.com/diskmend/diskmend/internal/posfile"
	"github.com/diskmend/diskmend/internal/rangetree"
)

func newTestContext(t *testing.T, data1, data2 []byte) *app.Context {
	t.Helper()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a")
	p2 := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(p1, data1, 0o644))
	require.NoError(t, os.WriteFile(p2, data2, 0o644))

	f1, f2, length, err := posfile.OpenPair(p1, p2)
	require.NoError(t, err)
	t.Cleanup(func() { f1.Close(); f2.Close() })

	return app.NewContext(f1, f2, length)
}

func TestDiffViewNavigationClampsPos(t *testing.T) {
	ctx := newTestContext(t, make([]byte, 64), make([]byte, 64))
	ctx.ShownDataHeight = 2 // 32 bytes visible, alignedLen = 64

	v := NewDiffView()
	var cl app.ChangeList

	v.HandleKey(ctx, keyMsg("pgdown"), &cl)
	assert.Equal(t, int64(32), ctx.Pos)

	v.HandleKey(ctx, keyMsg("pgdown"), &cl)
	assert.Equal(t, int64(32), ctx.Pos, "must not scroll past alignedLen - viewport")

	v.HandleKey(ctx, keyMsg("up"), &cl)
	assert.Equal(t, int64(16), ctx.Pos)
}

func TestDiffViewClassifyAndReset(t *testing.T) {
	ctx := newTestContext(t, make([]byte, 16), make([]byte, 16))
	ctx.Diffs.Append(rangetree.New(3, 5))
	ctx.CurrentDiffIndex = 0

	v := NewDiffView()
	var cl app.ChangeList

	v.HandleKey(ctx, keyMsg(">"), &cl)
	assert.True(t, ctx.MergesOneIntoTwo.ContainsRangeExact(rangetree.New(3, 5)))

	v.HandleKey(ctx, keyMsg("<"), &cl)
	assert.False(t, ctx.MergesOneIntoTwo.ContainsRangeExact(rangetree.New(3, 5)))
	assert.True(t, ctx.MergesTwoIntoOne.ContainsRangeExact(rangetree.New(3, 5)))

	v.HandleKey(ctx, keyMsg("!"), &cl)
	assert.False(t, ctx.MergesTwoIntoOne.ContainsRangeExact(rangetree.New(3, 5)))
}

func TestDiffViewQuitRequiresConfirmationOnlyWithClassifications(t *testing.T) {
	ctx := newTestContext(t, make([]byte, 16), make([]byte, 16))
	v := NewDiffView()

	var cl app.ChangeList
	v.HandleKey(ctx, keyMsg("q"), &cl)
	assert.True(t, ctx.Exit, "no classifications: q exits immediately")

	ctx.Exit = false
	ctx.Diffs.Append(rangetree.New(0, 1))
	ctx.CurrentDiffIndex = 0
	v.HandleKey(ctx, keyMsg(">"), &cl)

	var cl2 app.ChangeList
	v.HandleKey(ctx, keyMsg("q"), &cl2)
	assert.False(t, ctx.Exit, "pending classification: q must not exit directly")
}

func TestDiffViewRenderProducesOneRowPerLine(t *testing.T) {
	data1 := []byte("0123456789abcdef")
	data2 := []byte("0123456789abcdeX")
	ctx := newTestContext(t, data1, data2)

	v := NewDiffView()
	out := v.Render(ctx, 100, 5, "")
	lines := strings.Split(out, "\n")
	// pane title header + 1 data row + blank + instructions + status.
	assert.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, out, FormatGutter(0))
	assert.Contains(t, out, ctx.Name1)
	assert.Contains(t, out, ctx.Name2)
}

func TestPrecedenceLevelOrdering(t *testing.T) {
	ctx := newTestContext(t, make([]byte, 16), make([]byte, 16))
	ctx.Diffs.Append(rangetree.New(0, 10))
	ctx.LeaveUnmerged.Insert(rangetree.New(4, 8))
	ctx.MergesOneIntoTwo.Insert(rangetree.New(8, 10))

	assert.Equal(t, byte('5'), precedenceLevel(ctx, 1, 1), "unclassified diff")
	assert.Equal(t, byte('4'), precedenceLevel(ctx, 1, 5), "leave unmerged")
	assert.Equal(t, byte('3'), precedenceLevel(ctx, 1, 9), "merged-from side 1")
	assert.Equal(t, byte('2'), precedenceLevel(ctx, 2, 9), "merged-into side 2")
	assert.Equal(t, byte('6'), precedenceLevel(ctx, 1, 12), "equal")
}

func TestPrecedenceLevelCurrentDiffWins(t *testing.T) {
	ctx := newTestContext(t, make([]byte, 16), make([]byte, 16))
	ctx.Diffs.Append(rangetree.New(4, 8))
	ctx.LeaveUnmerged.Insert(rangetree.New(4, 8))
	ctx.CurrentDiffIndex = 0

	assert.Equal(t, byte('1'), precedenceLevel(ctx, 1, 5), "current diff outranks classification")
}
