package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/tui"
)

// fakeProgram stands in for the spinner. Unless quit or err is set it
// waits for the batch message, like the real program does.
type fakeProgram struct {
	model tea.Model
	err   error
	quit  bool
	msgs  chan tea.Msg
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{model: tui.NewProgressModel(1), msgs: make(chan tea.Msg, 1)}
}

func (f *fakeProgram) Run() (tea.Model, error) {
	if f.quit || f.err != nil {
		return f.model, f.err
	}
	m, _ := f.model.Update(<-f.msgs)
	return m, nil
}

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs <- msg }

// slowBatch blocks until cancelled, then takes a moment to wind down.
func slowBatch(finished *bool) func(context.Context) (*batch.Result, error) {
	return func(ctx context.Context) (*batch.Result, error) {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		*finished = true
		return nil, ctx.Err()
	}
}

func TestProgressRunCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := progressRun(ctx, cancel, newFakeProgram(), func(context.Context) (*batch.Result, error) {
		return &batch.Result{RunID: "run-1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)
}

func TestProgressRunWaitsForBatchOnInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newFakeProgram()
	p.quit = true

	finished := false
	_, err := progressRun(ctx, cancel, p, slowBatch(&finished))
	assert.EqualError(t, err, "interrupted")
	assert.True(t, finished, "batch still running after return")
}

func TestProgressRunWaitsForBatchOnDisplayError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newFakeProgram()
	p.err = errors.New("no tty")

	finished := false
	_, err := progressRun(ctx, cancel, p, slowBatch(&finished))
	assert.ErrorContains(t, err, "progress display: no tty")
	assert.True(t, finished)
}
