// Package speech coordinates the chat input's three concurrent signals:
// the text buffer, speech recognition, and remote audio playback. The
// coordination is an explicit state machine so that listening and audio
// capture can never be active at the same time; the state enum makes the
// illegal combination unrepresentable.
package speech

import (
	"strings"
	"sync"
	"time"

	"github.com/banter-app/banter-cli/pkg/logger"
)

// State of the input coordinator
type State int

const (
	// Idle: no listening, no audio
	Idle State = iota
	// Listening: recognition is capturing the microphone
	Listening
	// AudioPlaying: remote audio is playing; the user was not listening
	AudioPlaying
	// AudioPlayingWasListening: remote audio suspended an active listening
	// session; listening resumes exactly once when playback ends
	AudioPlayingWasListening
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case AudioPlaying:
		return "audio_playing"
	case AudioPlayingWasListening:
		return "audio_playing_was_listening"
	default:
		return "unknown"
	}
}

// Recognizer abstracts the platform speech-recognition primitive. A nil
// recognizer degrades the control to a plain text input.
type Recognizer interface {
	Start() error
	Stop()
}

// Player abstracts remote audio playback. Play starts the clip and calls
// done exactly once when playback finishes; done must not be called when
// Play returns an error.
type Player interface {
	Play(url string, done func()) error
}

// DefaultRestartDelay is the pause before recognition restarts after the
// engine stops itself or after a message is sent.
const DefaultRestartDelay = 300 * time.Millisecond

// Machine is the chat input state machine. One machine exists per chat
// input; Close stops recognition on unmount or navigation.
type Machine struct {
	mu           sync.Mutex
	state        State
	rec          Recognizer
	player       Player
	buf          strings.Builder
	restartDelay time.Duration
	restartTimer *time.Timer
	// one-shot guard: a recognition end that follows a send must not
	// trigger the auto-restart (the send path decides what happens next)
	suppressRestart bool
}

// NewMachine creates a machine over the given recognizer. rec may be nil
// when the platform has no speech capability.
func NewMachine(rec Recognizer) *Machine {
	return &Machine{rec: rec, restartDelay: DefaultRestartDelay}
}

// SetPlayer wires the audio playback backend. p may be nil when the
// platform cannot play audio; incoming voice clips are then ignored.
func (m *Machine) SetPlayer(p Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player = p
}

// PlayRemote plays an incoming voice clip, suspending recognition for the
// duration. The player's completion callback resumes a suspended listening
// session; a playback failure resumes it immediately so the machine is
// never stranded waiting for audio that will not end.
func (m *Machine) PlayRemote(url string) {
	m.mu.Lock()
	p := m.player
	m.mu.Unlock()

	if p == nil || url == "" {
		return
	}

	m.AudioStarted()
	if err := p.Play(url, m.AudioEnded); err != nil {
		logger.Warn("Audio playback failed", "error", err)
		m.AudioEnded()
	}
}

// SetRestartDelay overrides the auto-restart delay
func (m *Machine) SetRestartDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restartDelay = d
}

// Supported reports whether a recognizer is available
func (m *Machine) Supported() bool {
	return m.rec != nil
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsListening reports whether recognition is driving the microphone
func (m *Machine) IsListening() bool {
	return m.State() == Listening
}

// IsAudioPlaying reports whether remote audio is playing
func (m *Machine) IsAudioPlaying() bool {
	s := m.State()
	return s == AudioPlaying || s == AudioPlayingWasListening
}

// Text returns the accumulated text buffer
func (m *Machine) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}

// AppendTranscript appends a final transcript fragment to the buffer
func (m *Machine) AppendTranscript(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buf.Len() > 0 && text != "" {
		m.buf.WriteByte(' ')
	}
	m.buf.WriteString(text)
}

// SetText replaces the buffer (typed input)
func (m *Machine) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf.Reset()
	m.buf.WriteString(text)
}

// ToggleMic flips the user's listening intent. Unsupported platforms stay
// in Idle.
func (m *Machine) ToggleMic() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rec == nil {
		return
	}

	switch m.state {
	case Idle:
		if err := m.rec.Start(); err != nil {
			logger.Error("Failed to start recognition", "error", err)
			return
		}
		m.state = Listening
	case Listening:
		m.cancelRestartLocked()
		m.rec.Stop()
		m.state = Idle
	case AudioPlayingWasListening:
		// Toggling off while suspended drops the resume intent
		m.state = AudioPlaying
	case AudioPlaying:
		m.state = AudioPlayingWasListening
	}
}

// AudioStarted signals that remote audio playback began. Active listening
// is forcibly stopped and the intent to resume is remembered.
func (m *Machine) AudioStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Listening:
		m.cancelRestartLocked()
		m.rec.Stop()
		m.state = AudioPlayingWasListening
	case Idle:
		m.state = AudioPlaying
	}
}

// AudioEnded signals that remote audio playback finished. A suspended
// listening session resumes exactly once.
func (m *Machine) AudioEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case AudioPlayingWasListening:
		if err := m.rec.Start(); err != nil {
			logger.Error("Failed to resume recognition", "error", err)
			m.state = Idle
			return
		}
		m.state = Listening
	case AudioPlaying:
		m.state = Idle
	}
}

// RecognitionEnded signals that the recognition engine stopped on its own.
// While the user still intends to listen, recognition restarts after a
// short delay, unless a send on this same end event suppressed it.
func (m *Machine) RecognitionEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.suppressRestart {
		m.suppressRestart = false
		return
	}

	if m.state != Listening {
		return
	}

	m.scheduleRestartLocked()
}

// RecognitionError forces the machine to Idle. Recognition failures are
// logged, never surfaced as a blocking failure.
func (m *Machine) RecognitionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Error("Recognition error", "error", err, "state", m.state.String())
	m.cancelRestartLocked()
	if m.state == Listening {
		m.rec.Stop()
	}
	m.state = Idle
}

// Send drains the buffer for submission. If listening, recognition stops;
// when a spoken reply is expected the machine waits in
// AudioPlayingWasListening for it, otherwise listening restarts after a
// short delay.
func (m *Machine) Send(expectReply bool) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	text := m.buf.String()
	m.buf.Reset()

	if m.state != Listening {
		return text
	}

	m.cancelRestartLocked()
	m.rec.Stop()
	m.suppressRestart = true

	if expectReply {
		m.state = AudioPlayingWasListening
	} else {
		m.scheduleRestartLocked()
	}
	return text
}

// Close tears the machine down: recognition stops and no restart fires
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelRestartLocked()
	if m.state == Listening && m.rec != nil {
		m.rec.Stop()
	}
	m.state = Idle
}

// scheduleRestartLocked arms the delayed restart. The state remains
// Listening during the delay; the restart is dropped if the state moved on
// by the time the timer fires.
func (m *Machine) scheduleRestartLocked() {
	m.cancelRestartLocked()
	m.restartTimer = time.AfterFunc(m.restartDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != Listening {
			return
		}
		if err := m.rec.Start(); err != nil {
			logger.Error("Failed to restart recognition", "error", err)
			m.state = Idle
		}
	})
}

func (m *Machine) cancelRestartLocked() {
	if m.restartTimer != nil {
		m.restartTimer.Stop()
		m.restartTimer = nil
	}
}
