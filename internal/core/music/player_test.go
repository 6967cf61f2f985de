package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaylistWrapsBothWays(t *testing.T) {
	player := NewPlayer(nil)
	assert.Equal(t, "MindScape Theme", player.State().Track.Title)

	assert.Equal(t, "Focus Mode", player.Prev().Title)
	assert.Equal(t, "MindScape Theme", player.Next().Title)
	assert.Equal(t, "Relaxing Waves", player.Next().Title)
	assert.Equal(t, 1, player.State().Index)
}

func TestPlayPauseKeepsStateAcrossSkips(t *testing.T) {
	player := NewPlayer(nil)
	assert.True(t, player.PlayPause())
	player.Next()
	assert.True(t, player.State().Playing)

	player.Pause()
	assert.False(t, player.State().Playing)
	assert.True(t, player.PlayPause())
	assert.False(t, player.PlayPause())
}
