// ABOUTME: Interview panel CLI command
// ABOUTME: Launches the terminal interview UI for a lifecycle
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/interview"
	"github.com/orahq/orascan/summarize"
	"github.com/orahq/orascan/tui"
)

// fileSource tails a transcript file, emitting each appended line as an
// utterance. Terminal sessions have no microphone, so an external capture
// tool writes lines here instead.
type fileSource struct {
	path string

	mu      sync.Mutex
	stopped bool
}

func (s *fileSource) Start(onUtterance func(interview.Utterance), onError func(error)) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open transcript file: %w", err)
	}

	// Only lines written after the session starts count.
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return err
	}

	go func() {
		defer file.Close()
		reader := bufio.NewReader(file)
		for {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					onError(err)
					return
				}
				time.Sleep(500 * time.Millisecond)
				continue
			}

			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			onUtterance(interview.Utterance{At: time.Now(), Text: text})
		}
	}()

	return nil
}

func (s *fileSource) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return nil
}

// InterviewCommand opens the interactive interview panel for a lifecycle.
func InterviewCommand(database *sql.DB, events *bus.Bus, client *summarize.Client, args []string) error {
	fs := flag.NewFlagSet("interview", flag.ExitOnError)
	transcriptFile := fs.String("transcript-file", "", "File to tail for live transcript lines")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("lifecycle ID required")
	}

	lifecycleID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lifecycle ID: %w", err)
	}

	lifecycle, err := db.GetLifecycle(database, lifecycleID)
	if err != nil {
		return fmt.Errorf("failed to load lifecycle: %w", err)
	}
	if lifecycle == nil {
		return fmt.Errorf("lifecycle not found: %s", lifecycleID)
	}

	store := interview.NewSummaryStore(database, events, client, lifecycle)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load pain points: %w", err)
	}

	factory := func(ctx context.Context) (interview.SpeechSource, error) {
		if *transcriptFile == "" {
			return nil, fmt.Errorf("no capture source configured, pass --transcript-file")
		}
		return &fileSource{path: *transcriptFile}, nil
	}
	recorder := interview.NewRecorder(database, store, factory)

	model := tui.NewModel(database, events, store, recorder, lifecycle)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interview panel error: %w", err)
	}

	return nil
}
