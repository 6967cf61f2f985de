package audio

import (
	"sync"

	"wristsim/internal/core/model"

	"github.com/rs/zerolog"
)

// Player opens playback handles for cues. Hosts provide the implementation;
// the engine only models logical playback.
type Player interface {
	Open(cue model.Cue) (Handle, error)
}

// Handle is a single playback resource.
type Handle interface {
	Play() error
	Pause()
	Rewind()
	SetLoop(loop bool)
	Playing() bool
	Close() error
}

// NopPlayer produces handles that only track their playing flag.
type NopPlayer struct{}

// Open returns a logical handle.
func (NopPlayer) Open(model.Cue) (Handle, error) {
	return &logicalHandle{}, nil
}

type logicalHandle struct {
	playing bool
	loop    bool
}

func (handle *logicalHandle) Play() error {
	handle.playing = true
	return nil
}

func (handle *logicalHandle) Pause()            { handle.playing = false }
func (handle *logicalHandle) Rewind()           {}
func (handle *logicalHandle) SetLoop(loop bool) { handle.loop = loop }
func (handle *logicalHandle) Playing() bool     { return handle.playing }
func (handle *logicalHandle) Close() error {
	handle.playing = false
	return nil
}

// RecordingPlayer counts opens and plays per cue. It is safe for concurrent use.
type RecordingPlayer struct {
	mu     sync.Mutex
	opens  map[model.Cue]int
	plays  map[model.Cue]int
	closes map[model.Cue]int
	// Fail makes Open return the error for the listed cues.
	Fail map[model.Cue]error
}

// NewRecordingPlayer returns an empty recorder.
func NewRecordingPlayer() *RecordingPlayer {
	return &RecordingPlayer{
		opens:  make(map[model.Cue]int),
		plays:  make(map[model.Cue]int),
		closes: make(map[model.Cue]int),
	}
}

// Open records the open and returns a recording handle.
func (recorder *RecordingPlayer) Open(cue model.Cue) (Handle, error) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if err := recorder.Fail[cue]; err != nil {
		return nil, err
	}
	recorder.opens[cue]++
	return &recordingHandle{recorder: recorder, cue: cue}, nil
}

// Plays returns how many times cue started playing.
func (recorder *RecordingPlayer) Plays(cue model.Cue) int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.plays[cue]
}

// Opens returns how many handles were opened for cue.
func (recorder *RecordingPlayer) Opens(cue model.Cue) int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.opens[cue]
}

// Closes returns how many handles were closed for cue.
func (recorder *RecordingPlayer) Closes(cue model.Cue) int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.closes[cue]
}

type recordingHandle struct {
	logicalHandle
	recorder *RecordingPlayer
	cue      model.Cue
}

func (handle *recordingHandle) Play() error {
	handle.recorder.mu.Lock()
	handle.recorder.plays[handle.cue]++
	handle.recorder.mu.Unlock()
	return handle.logicalHandle.Play()
}

func (handle *recordingHandle) Close() error {
	handle.recorder.mu.Lock()
	handle.recorder.closes[handle.cue]++
	handle.recorder.mu.Unlock()
	return handle.logicalHandle.Close()
}

// LogPlayer writes a debug line whenever a cue starts or stops.
type LogPlayer struct {
	Logger zerolog.Logger
}

// Open returns a handle that logs transitions of its playing flag.
func (player LogPlayer) Open(cue model.Cue) (Handle, error) {
	return &logHandle{logger: player.Logger, cue: cue}, nil
}

type logHandle struct {
	logicalHandle
	logger zerolog.Logger
	cue    model.Cue
}

func (handle *logHandle) Play() error {
	handle.logger.Debug().Str("event", "sink.play").Stringer("cue", handle.cue).Bool("loop", handle.loop).Msg("cue playing")
	return handle.logicalHandle.Play()
}

func (handle *logHandle) Pause() {
	if handle.playing {
		handle.logger.Debug().Str("event", "sink.stop").Stringer("cue", handle.cue).Msg("cue stopped")
	}
	handle.logicalHandle.Pause()
}
