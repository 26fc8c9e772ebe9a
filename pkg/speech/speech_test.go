package speech

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	starts   int
	stops    int
	startErr error
}

func (f *fakeRecognizer) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	return nil
}

func (f *fakeRecognizer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeRecognizer) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

func waitForStarts(t *testing.T, rec *fakeRecognizer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if starts, _ := rec.counts(); starts >= want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	starts, _ := rec.counts()
	t.Fatalf("Expected %d starts, got %d", want, starts)
}

func TestToggleMicStartsAndStops(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	if !m.IsListening() {
		t.Error("Expected listening after toggle on")
	}

	m.ToggleMic()
	if m.IsListening() {
		t.Error("Expected idle after toggle off")
	}

	starts, stops := rec.counts()
	if starts != 1 || stops != 1 {
		t.Errorf("Expected 1 start and 1 stop, got %d/%d", starts, stops)
	}
}

func TestNilRecognizerDegradesToTextInput(t *testing.T) {
	m := NewMachine(nil)

	if m.Supported() {
		t.Error("Expected unsupported without a recognizer")
	}

	m.ToggleMic()
	if m.State() != Idle {
		t.Errorf("Expected idle, got %v", m.State())
	}

	m.SetText("typed message")
	if got := m.Send(false); got != "typed message" {
		t.Errorf("Expected typed message, got %q", got)
	}
}

func TestListeningAndAudioAreMutuallyExclusive(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	m.AudioStarted()

	if m.IsListening() && m.IsAudioPlaying() {
		t.Error("Listening and audio playback must never overlap")
	}
	if m.State() != AudioPlayingWasListening {
		t.Errorf("Expected suspended listening, got %v", m.State())
	}
	if _, stops := rec.counts(); stops != 1 {
		t.Errorf("Expected recognition stopped during playback, got %d stops", stops)
	}
}

func TestAudioEndedResumesListeningExactlyOnce(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	m.AudioStarted()
	m.AudioEnded()

	if !m.IsListening() {
		t.Error("Expected listening to resume after playback")
	}

	// spurious duplicate end event
	m.AudioEnded()

	starts, _ := rec.counts()
	if starts != 2 {
		t.Errorf("Expected exactly one resume start, got %d total starts", starts)
	}
}

func TestAudioWithoutListeningReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.AudioStarted()
	if m.State() != AudioPlaying {
		t.Errorf("Expected audio playing, got %v", m.State())
	}

	m.AudioEnded()
	if m.State() != Idle {
		t.Errorf("Expected idle after playback, got %v", m.State())
	}

	starts, _ := rec.counts()
	if starts != 0 {
		t.Errorf("Expected no recognition starts, got %d", starts)
	}
}

func TestRecognitionEndedRestartsAfterDelay(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)
	m.SetRestartDelay(5 * time.Millisecond)

	m.ToggleMic()
	m.RecognitionEnded()

	waitForStarts(t, rec, 2)
	if !m.IsListening() {
		t.Error("Expected listening after auto-restart")
	}
}

func TestRecognitionEndedAfterToggleOffDoesNotRestart(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)
	m.SetRestartDelay(time.Millisecond)

	m.ToggleMic()
	m.ToggleMic()
	m.RecognitionEnded()

	time.Sleep(20 * time.Millisecond)
	starts, _ := rec.counts()
	if starts != 1 {
		t.Errorf("Expected no restart after toggle off, got %d starts", starts)
	}
}

func TestSendSuppressesEndTriggeredRestart(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)
	m.SetRestartDelay(5 * time.Millisecond)

	m.ToggleMic()
	m.AppendTranscript("hello")
	m.AppendTranscript("there")

	text := m.Send(false)
	if text != "hello there" {
		t.Errorf("Expected joined transcript, got %q", text)
	}
	if m.Text() != "" {
		t.Error("Expected buffer cleared after send")
	}

	// the stop triggers an end event; the send already scheduled the
	// restart, so this end must not schedule a second one
	m.RecognitionEnded()

	waitForStarts(t, rec, 2)
	time.Sleep(20 * time.Millisecond)
	starts, _ := rec.counts()
	if starts != 2 {
		t.Errorf("Expected a single restart after send, got %d starts", starts)
	}
}

func TestSendExpectingReplyWaitsForPlayback(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)
	m.SetRestartDelay(time.Millisecond)

	m.ToggleMic()
	m.AppendTranscript("question")
	m.Send(true)

	if m.State() != AudioPlayingWasListening {
		t.Errorf("Expected waiting for reply playback, got %v", m.State())
	}

	time.Sleep(20 * time.Millisecond)
	if starts, _ := rec.counts(); starts != 1 {
		t.Errorf("Expected no restart while waiting for reply, got %d starts", starts)
	}

	m.AudioEnded()
	if !m.IsListening() {
		t.Error("Expected listening to resume after the reply played")
	}
}

func TestRecognitionErrorForcesIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	m.RecognitionError(errors.New("audio device lost"))

	if m.State() != Idle {
		t.Errorf("Expected idle after error, got %v", m.State())
	}
	if _, stops := rec.counts(); stops != 1 {
		t.Errorf("Expected recognition stopped on error, got %d stops", stops)
	}
}

func TestAudioStartedDuringPendingRestartCancelsIt(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)
	m.SetRestartDelay(10 * time.Millisecond)

	m.ToggleMic()
	m.RecognitionEnded()
	m.AudioStarted()

	time.Sleep(30 * time.Millisecond)
	starts, _ := rec.counts()
	if starts != 1 {
		t.Errorf("Expected pending restart cancelled by playback, got %d starts", starts)
	}
	if m.State() != AudioPlayingWasListening {
		t.Errorf("Expected suspended listening, got %v", m.State())
	}
}

func TestCloseStopsRecognition(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	m.Close()

	if m.State() != Idle {
		t.Errorf("Expected idle after close, got %v", m.State())
	}
	if _, stops := rec.counts(); stops != 1 {
		t.Errorf("Expected 1 stop, got %d", stops)
	}
}

func TestStartFailureStaysIdle(t *testing.T) {
	rec := &fakeRecognizer{startErr: errors.New("mic busy")}
	m := NewMachine(rec)

	m.ToggleMic()
	if m.State() != Idle {
		t.Errorf("Expected idle when start fails, got %v", m.State())
	}
}

type fakePlayer struct {
	mu   sync.Mutex
	urls []string
	done func()
	err  error
}

func (p *fakePlayer) Play(url string, done func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.urls = append(p.urls, url)
	p.done = done
	return nil
}

func (p *fakePlayer) finish() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	done()
}

func TestPlayRemoteSuspendsAndResumes(t *testing.T) {
	rec := &fakeRecognizer{}
	pl := &fakePlayer{}
	m := NewMachine(rec)
	m.SetPlayer(pl)

	m.ToggleMic()
	m.PlayRemote("https://cdn.example/clip.ogg")

	if m.State() != AudioPlayingWasListening {
		t.Fatalf("Expected suspended listening, got %s", m.State())
	}
	if len(pl.urls) != 1 || pl.urls[0] != "https://cdn.example/clip.ogg" {
		t.Errorf("Player got wrong urls: %v", pl.urls)
	}

	pl.finish()
	if m.State() != Listening {
		t.Errorf("Expected listening after playback, got %s", m.State())
	}
	if starts, _ := rec.counts(); starts != 2 {
		t.Errorf("Expected 2 starts, got %d", starts)
	}
}

func TestPlayRemoteFailureResumesImmediately(t *testing.T) {
	rec := &fakeRecognizer{}
	pl := &fakePlayer{err: errors.New("no audio device")}
	m := NewMachine(rec)
	m.SetPlayer(pl)

	m.ToggleMic()
	m.PlayRemote("https://cdn.example/clip.ogg")

	if m.State() != Listening {
		t.Errorf("Expected listening restored after failed playback, got %s", m.State())
	}
}

func TestPlayRemoteWithoutPlayerIsIgnored(t *testing.T) {
	rec := &fakeRecognizer{}
	m := NewMachine(rec)

	m.ToggleMic()
	m.PlayRemote("https://cdn.example/clip.ogg")

	if m.State() != Listening {
		t.Errorf("Expected playback ignored without a player, got %s", m.State())
	}
}
