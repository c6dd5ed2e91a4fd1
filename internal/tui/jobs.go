package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

const (
	jobKindCreate   jobKind = "create"
	jobKindCapture  jobKind = "capture"
	jobKindStatus   jobKind = "status"
	jobKindSelect   jobKind = "select"
	jobKindFinalize jobKind = "finalize"
	jobKindReset    jobKind = "reset"
	jobKindGallery  jobKind = "gallery"
	jobKindArchive  jobKind = "archive"
)

// jobRunner performs one backend interaction and produces the message that
// carries its outcome back into the update loop.
type jobRunner func(context.Context) (tea.Msg, error)

// jobBus hands out IDs and logs job outcomes. Every network interaction
// goes through it so the session log reflects what the kiosk actually did.
type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start wraps runner into a command. The payload message is delivered even
// on error; runners embed the error so the model can surface it.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	return func() tea.Msg {
		payload, err := runner(context.Background())
		duration := time.Since(started)
		if err != nil {
			log.Printf("[jobs] %s failed (duration=%s): %v", id, duration, err)
		} else {
			log.Printf("[jobs] %s succeeded (duration=%s)", id, duration)
		}
		return payload
	}
}
