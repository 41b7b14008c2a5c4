package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := OutputWriteError("/out/final.xlsx", cause)

	assert.Contains(t, err.Error(), "save")
	assert.Contains(t, err.Error(), "final.xlsx")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsStage(err, StageSave))
	assert.False(t, IsStage(err, StageScan))
}

func TestIsStageSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("run aborted: %w", ErrTrackerUnresolvable)
	assert.True(t, IsStage(wrapped, StageTracker))
	assert.False(t, IsStage(fmt.Errorf("plain"), StageTracker))
}

func TestWarningsAddAndMerge(t *testing.T) {
	var ws Warnings
	ws.Add("a.xlsx", "sheet %q skipped", "Hidden")

	var more Warnings
	more.Add("", "root missing")
	ws.Merge(more)

	assert.Len(t, ws, 2)
	assert.Equal(t, `a.xlsx: sheet "Hidden" skipped`, ws[0].String())
	assert.Equal(t, "root missing", ws[1].String())
}
