package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/boothctl/internal/booth"
)

const requestTimeout = 15 * time.Second

// schedule delivers msg after d. All burst and countdown steps go through
// here; the messages carry a generation so stale steps are dropped on
// arrival rather than cancelled in flight.
func schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func createSessionJob(client *booth.Client, layout booth.Layout, orientation booth.Orientation, thenCapture bool, gen int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		result, err := client.CreateSession(ctx, layout, orientation)
		return sessionCreatedMsg{result: result, thenCapture: thenCapture, gen: gen, err: err}, err
	}
}

func captureJob(client *booth.Client, gen int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		result, err := client.CapturePhoto(ctx)
		return captureResultMsg{result: result, gen: gen, err: err}, err
	}
}

func statusJob(client *booth.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		snapshot, err := client.Status(ctx)
		return snapshotMsg{snapshot: snapshot, err: err}, err
	}
}

func selectPhotosJob(client *booth.Client, indices []int) jobRunner {
	picked := append([]int(nil), indices...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		err := client.SelectPhotos(ctx, picked)
		return selectResultMsg{indices: picked, err: err}, err
	}
}

func finalizeJob(client *booth.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		// Collage composition can outlast a plain request timeout.
		ctx, cancel := context.WithTimeout(parent, 2*requestTimeout)
		defer cancel()
		result, err := client.Finalize(ctx)
		return finalizeResultMsg{result: result, err: err}, err
	}
}

func resetJob(client *booth.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		err := client.Reset(ctx)
		return resetResultMsg{err: err}, err
	}
}

func galleryJob(client *booth.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		photos, err := client.ListPhotos(ctx)
		return galleryResultMsg{photos: photos, err: err}, err
	}
}
