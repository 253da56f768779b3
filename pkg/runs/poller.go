package runs

import (
	"context"
	"time"

	"github.com/killallgit/conduit/pkg/logger"
)

// RunFailedError is a domain failure: the run itself reported an error
// or failed status. It is distinct from a transport error during a poll.
type RunFailedError struct {
	RunID   string
	Message string
}

func (e *RunFailedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "run failed"
}

// FetchFunc retrieves the current snapshot for a run.
type FetchFunc func(ctx context.Context, threadID, runID string) (Snapshot, error)

// ProgressFunc observes each polled snapshot before it is tested for
// termination.
type ProgressFunc func(Snapshot)

// Poller repeatedly fetches a run's status until it reaches a terminal
// state. It performs no retries: a transport error ends the poll.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
}

// DefaultInterval is the poll cadence used when none is configured.
const DefaultInterval = 2 * time.Second

func NewPoller(fetch FetchFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{fetch: fetch, interval: interval}
}

// Poll fetches the run status once per interval until the run is
// terminal. It returns the final snapshot on completion, a
// *RunFailedError when the run reports error or failed, and the
// transport error verbatim if a fetch fails. The first fetch happens
// immediately; no fetch is issued after a terminal result.
func (p *Poller) Poll(ctx context.Context, threadID, runID string, progress ProgressFunc) (Snapshot, error) {
	log := logger.WithComponent("run_poller")

	for {
		snapshot, err := p.fetch(ctx, threadID, runID)
		if err != nil {
			log.Error("run status fetch failed", "run_id", runID, "error", err)
			return Snapshot{}, err
		}

		if progress != nil {
			progress(snapshot)
		}

		if snapshot.Status == StatusCompleted {
			log.Debug("run completed", "run_id", runID)
			return snapshot, nil
		}
		if snapshot.Failed() {
			log.Debug("run failed", "run_id", runID, "status", snapshot.Status)
			return snapshot, &RunFailedError{RunID: runID, Message: snapshot.ErrorMessage}
		}

		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-time.After(p.interval):
		}
	}
}
