package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepNextNoopWhenDisabled(t *testing.T) {
	tr := NewTracker(false)
	tr.StepNext("does nothing")
}

func TestStepNextAdvancesClock(t *testing.T) {
	tr := NewTracker(true)
	first := tr.last
	time.Sleep(time.Millisecond)
	tr.StepNext("step %d", 1)
	assert.True(t, tr.last.After(first))
}

func TestStepBytesAdvancesClock(t *testing.T) {
	tr := NewTracker(true)
	first := tr.last
	time.Sleep(time.Millisecond)
	tr.StepBytes(1<<20, "copied a chunk")
	assert.True(t, tr.last.After(first))
}

func TestErrorfReturnsFormattedMessage(t *testing.T) {
	err := Errorf("range %d overlaps %d", 3, 4)
	assert.EqualError(t, err, "range 3 overlaps 4")
}

func TestComponentTrimsToPackageName(t *testing.T) {
	assert.Equal(t, "apply", component("github.com/diskmend/diskmend/internal/apply.Run"))
	assert.Equal(t, "main", component("main.runInteractive"))
	assert.Equal(t, "differ", component("github.com/diskmend/diskmend/internal/differ.(*chunk).reset"))
}

func TestLocationResolvesCaller(t *testing.T) {
	pkg, line := Location(1)
	assert.Equal(t, "trace", pkg)
	assert.Greater(t, line, 0)
}
