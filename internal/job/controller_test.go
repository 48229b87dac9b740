package job

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekslens/leadgen-cli/internal/model"
)

func TestController_TryStart(t *testing.T) {
	c := New()

	require.True(t, c.TryStart())
	assert.True(t, c.Running())

	// Second start while running is refused.
	assert.False(t, c.TryStart())

	c.Finish(TerminalCompleted, "done")
	assert.False(t, c.Running())
	assert.True(t, c.TryStart())
}

func TestController_TryStart_Concurrent(t *testing.T) {
	c := New()

	const callers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- c.TryStart()
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestController_TryStart_ResetsState(t *testing.T) {
	c := New()
	require.True(t, c.TryStart())
	c.SetProgress(60)
	c.RequestStop()
	c.Log("INFO", "old entry")
	c.Finish(TerminalCancelled, "stopped")

	require.True(t, c.TryStart())
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Progress)
	assert.False(t, c.Stopped())
	assert.Empty(t, c.Logs())
}

func TestController_Finish(t *testing.T) {
	c := New()

	require.True(t, c.TryStart())
	c.SetProgress(40)
	c.Finish(TerminalCompleted, "completed")
	snap := c.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, "completed", snap.StatusMessage)

	// A failed run resets progress.
	require.True(t, c.TryStart())
	c.SetProgress(70)
	c.Finish(TerminalFailed, "search failed")
	snap = c.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 0, snap.Progress)

	// A cancelled run keeps whatever progress it reached.
	require.True(t, c.TryStart())
	c.SetProgress(55)
	c.Finish(TerminalCancelled, "stopped")
	assert.Equal(t, 55, c.Snapshot().Progress)
}

func TestController_FailedRunKeepsPreviousResults(t *testing.T) {
	c := New()

	require.True(t, c.TryStart())
	report := &model.Report{ID: "r1", TotalLeads: 3}
	c.SetLastResults(report)
	c.Finish(TerminalCompleted, "completed")

	require.True(t, c.TryStart())
	c.Finish(TerminalFailed, "search failed")

	got := c.LastResults()
	require.NotNil(t, got)
	assert.Equal(t, "r1", got.ID)
}

func TestController_SetProgress(t *testing.T) {
	c := New()
	require.True(t, c.TryStart())

	c.SetProgress(30)
	assert.Equal(t, 30, c.Snapshot().Progress)

	// Regressions are ignored.
	c.SetProgress(10)
	assert.Equal(t, 30, c.Snapshot().Progress)

	// Values clamp to 100.
	c.SetProgress(250)
	assert.Equal(t, 100, c.Snapshot().Progress)
}

func TestController_StopFlag(t *testing.T) {
	c := New()
	require.True(t, c.TryStart())

	assert.False(t, c.Stopped())
	c.RequestStop()
	assert.True(t, c.Stopped())

	// Stop is advisory: the run stays active until the worker finishes.
	assert.True(t, c.Running())
}

func TestController_LogRing(t *testing.T) {
	c := New()

	for i := 0; i < 150; i++ {
		c.Log("INFO", fmt.Sprintf("entry %d", i))
	}

	logs := c.Logs()
	require.Len(t, logs, LogCapacity)

	// Oldest entries were evicted; order is preserved.
	assert.Equal(t, "entry 50", logs[0].Message)
	assert.Equal(t, "entry 149", logs[len(logs)-1].Message)
}

func TestController_LogsReturnsCopy(t *testing.T) {
	c := New()
	c.Log("INFO", "original")

	logs := c.Logs()
	logs[0].Message = "mutated"

	assert.Equal(t, "original", c.Logs()[0].Message)
}
