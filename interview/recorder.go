// ABOUTME: Live transcription engine for pain-point interviews
// ABOUTME: Recording state machine with periodic summarization and final flush
package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	dbpkg "github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

// Recorder states.
const (
	StateIdle      = "idle"
	StateRecording = "recording"
	StateStopping  = "stopping"
)

const (
	initialSummaryDelay = 10 * time.Second
	summaryInterval     = 30 * time.Second
	resetWindow         = 5 * time.Minute
)

// ErrAlreadyRecording is returned when Start is called mid-session. Only one
// recognition session may be active at a time.
var ErrAlreadyRecording = errors.New("a recording session is already active")

// Utterance is one recognized speech segment.
type Utterance struct {
	At   time.Time
	Text string
}

// SpeechSource is the streaming recognition boundary. Start begins a
// continuous session, delivering utterances and errors on the callbacks
// until Stop. A mid-session failure (including cancellation) arrives on
// onError and ends the session.
type SpeechSource interface {
	Start(onUtterance func(Utterance), onError func(error)) error
	Stop() error
}

// SpeechSourceFactory acquires a microphone and opens a session, typically
// after fetching speech credentials.
type SpeechSourceFactory func(ctx context.Context) (SpeechSource, error)

// Recorder drives a lifecycle's live interview: it accumulates the
// timestamped transcript, persists it on a cadence, and triggers
// re-summarization. State transitions: Idle -> Recording -> Stopping -> Idle.
type Recorder struct {
	database *sql.DB
	store    *SummaryStore
	factory  SpeechSourceFactory

	initialDelay time.Duration
	interval     time.Duration

	mu         sync.Mutex
	state      string
	source     SpeechSource
	transcript models.Transcription
	resetAt    time.Time
	lastErr    error
	done       chan struct{}
	loopDone   chan struct{}
}

func NewRecorder(database *sql.DB, store *SummaryStore, factory SpeechSourceFactory) *Recorder {
	return &Recorder{
		database:     database,
		store:        store,
		factory:      factory,
		initialDelay: initialSummaryDelay,
		interval:     summaryInterval,
		state:        StateIdle,
		transcript:   models.Transcription{LifecycleID: store.lifecycle.ID},
	}
}

// State returns the current session state.
func (r *Recorder) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the last session error, cleared on the next Start.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Transcript returns the accumulated transcript text.
func (r *Recorder) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transcript.Text
}

// Start opens a recognition session and begins accumulating utterances.
// The first summarization runs once, 10 seconds in, for early feedback;
// after that a 30-second cycle persists the transcript and refreshes the
// summary without persisting it.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.state = StateRecording
	r.lastErr = nil
	r.mu.Unlock()

	source, err := r.factory(ctx)
	if err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.lastErr = err
		r.mu.Unlock()
		return fmt.Errorf("failed to open speech session: %w", err)
	}

	if err := source.Start(r.handleUtterance, r.handleSessionError); err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.lastErr = err
		r.mu.Unlock()
		return fmt.Errorf("failed to start recognition: %w", err)
	}

	done := make(chan struct{})
	loopDone := make(chan struct{})

	r.mu.Lock()
	r.source = source
	r.done = done
	r.loopDone = loopDone
	r.mu.Unlock()

	go r.runSummaryLoop(done, loopDone)
	return nil
}

// Stop closes the session, forces one final persisted summarization, and
// persists the transcript.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil
	}
	r.state = StateStopping
	source := r.source
	done := r.done
	loopDone := r.loopDone
	r.source = nil
	r.done = nil
	r.loopDone = nil
	r.mu.Unlock()

	close(done)
	<-loopDone

	var firstErr error
	if err := source.Stop(); err != nil {
		firstErr = fmt.Errorf("failed to stop recognition: %w", err)
	}

	if text := r.Transcript(); text != "" {
		if err := r.store.Update(ctx, text, true); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := r.persistTranscript(); err != nil && firstErr == nil {
		firstErr = err
	}

	r.mu.Lock()
	r.state = StateIdle
	if firstErr != nil {
		r.lastErr = firstErr
	}
	r.mu.Unlock()
	return firstErr
}

// ResetTranscript clears the transcript server-side and locally, and opens
// the reset window: for five minutes, background refreshes cannot resurrect
// the old text even if the delete raced an in-flight fetch.
func (r *Recorder) ResetTranscript() error {
	if err := dbpkg.DeleteTranscription(r.database, r.store.lifecycle.ID); err != nil {
		return err
	}

	r.mu.Lock()
	r.transcript.Text = ""
	r.resetAt = time.Now()
	r.mu.Unlock()
	return nil
}

// Refresh applies the persisted transcript, as a background poll would.
// Inside the reset window the stored text is ignored.
func (r *Recorder) Refresh() error {
	stored, err := dbpkg.GetTranscription(r.database, r.store.lifecycle.ID)
	if err == dbpkg.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.resetAt) < resetWindow {
		return nil
	}
	r.transcript.Text = stored.Text
	return nil
}

func (r *Recorder) handleUtterance(u Utterance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	if u.At.IsZero() {
		u.At = time.Now()
	}
	r.transcript.AppendUtterance(u.At, u.Text)
}

// handleSessionError ends the session: the error is surfaced, state drops
// back to idle, and whatever transcript accumulated is still saved.
func (r *Recorder) handleSessionError(err error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	r.state = StateIdle
	r.lastErr = err
	done := r.done
	r.source = nil
	r.done = nil
	r.loopDone = nil
	r.mu.Unlock()

	if done != nil {
		close(done)
	}

	if saveErr := r.persistTranscript(); saveErr != nil {
		log.Printf("interview: failed to save transcript after session error: %v", saveErr)
	}
}

// runSummaryLoop fires the 10-second initial summarization, then the
// 30-second cycle. Each cycle persists the transcript and refreshes the
// summary without persisting it. The loop reschedules only while still
// recording, so a stop can never leave a timer chain running.
func (r *Recorder) runSummaryLoop(done <-chan struct{}, loopDone chan<- struct{}) {
	defer close(loopDone)

	initial := time.NewTimer(r.initialDelay)
	defer initial.Stop()

	select {
	case <-initial.C:
		r.summarizeInFlight()
	case <-done:
		return
	}

	for {
		timer := time.NewTimer(r.interval)
		select {
		case <-timer.C:
			if r.State() != StateRecording {
				return
			}
			if err := r.persistTranscript(); err != nil {
				log.Printf("interview: periodic transcript save failed: %v", err)
			}
			r.summarizeInFlight()
		case <-done:
			timer.Stop()
			return
		}
	}
}

// summarizeInFlight refreshes the summary from the current transcript
// without persisting it; mid-recording results are preview only.
func (r *Recorder) summarizeInFlight() {
	text := r.Transcript()
	if text == "" {
		return
	}
	if r.State() != StateRecording {
		return
	}
	if err := r.store.Update(context.Background(), text, false); err != nil {
		log.Printf("interview: periodic summarization failed: %v", err)
	}
}

func (r *Recorder) persistTranscript() error {
	r.mu.Lock()
	toSave := models.Transcription{
		LifecycleID: r.transcript.LifecycleID,
		Text:        r.transcript.Text,
	}
	r.mu.Unlock()

	if toSave.Text == "" {
		return nil
	}
	return dbpkg.SaveTranscription(r.database, &toSave)
}

// LifecycleID identifies the lifecycle this recorder serves.
func (r *Recorder) LifecycleID() uuid.UUID {
	return r.store.lifecycle.ID
}
