// Package music keeps the watch's playlist position and play state.
package music

import "wristsim/internal/core/model"

// DefaultPlaylist is the built-in track list.
var DefaultPlaylist = []model.Track{
	{ID: 1, Title: "MindScape Theme", Artist: "AI Composer", Duration: "3:45"},
	{ID: 2, Title: "Relaxing Waves", Artist: "Nature Sounds", Duration: "5:20"},
	{ID: 3, Title: "Focus Mode", Artist: "Productivity", Duration: "4:30"},
}

// Player cycles through a fixed playlist.
type Player struct {
	tracks  []model.Track
	index   int
	playing bool
}

// NewPlayer returns a paused player on the first track. An empty playlist
// falls back to DefaultPlaylist.
func NewPlayer(tracks []model.Track) *Player {
	if len(tracks) == 0 {
		tracks = DefaultPlaylist
	}
	return &Player{tracks: append([]model.Track(nil), tracks...)}
}

// PlayPause toggles playback and returns the new playing flag.
func (player *Player) PlayPause() bool {
	player.playing = !player.playing
	return player.playing
}

// Pause stops playback.
func (player *Player) Pause() {
	player.playing = false
}

// Next moves to the following track, wrapping around. Playback continues if it was on.
func (player *Player) Next() model.Track {
	player.index = (player.index + 1) % len(player.tracks)
	return player.tracks[player.index]
}

// Prev moves to the previous track, wrapping around.
func (player *Player) Prev() model.Track {
	player.index = (player.index - 1 + len(player.tracks)) % len(player.tracks)
	return player.tracks[player.index]
}

// State returns the current track and play state.
func (player *Player) State() model.MusicState {
	return model.MusicState{
		Track:   player.tracks[player.index],
		Index:   player.index,
		Playing: player.playing,
	}
}
