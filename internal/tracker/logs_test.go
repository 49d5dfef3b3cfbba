package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/tracker"
)

func TestMergeLogs_LocalBeforeRemote(t *testing.T) {
	local := []string{"started", "sent"}
	remote := []string{"queued", "done"}

	merged := tracker.MergeLogs(local, remote)
	assert.Equal(t, []string{"started", "sent", "queued", "done"}, merged)
}

func TestMergeLogs_EmptySources(t *testing.T) {
	assert.Empty(t, tracker.MergeLogs(nil, nil))
	assert.Equal(t, []string{"a"}, tracker.MergeLogs([]string{"a"}, nil))
	assert.Equal(t, []string{"b"}, tracker.MergeLogs(nil, []string{"b"}))
}

func TestMergeLogs_ReturnsFreshSlice(t *testing.T) {
	local := []string{"started"}
	remote := []string{"queued"}

	merged := tracker.MergeLogs(local, remote)
	merged[0] = "mutated"

	assert.Equal(t, []string{"started"}, local)
	assert.Equal(t, []string{"queued"}, remote)
}
