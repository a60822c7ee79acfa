package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/jonboulle/clockwork"
)

// PollInterval is the delay between successive status requests.
// It is a variable (not a constant) so tests can override it for speed.
var PollInterval = 500 * time.Millisecond

// Config wires a Poller. Client and Gate are required.
type Config struct {
	Client   domain.ReportClient
	Gate     *Gate
	Clock    clockwork.Clock
	Interval time.Duration
	Logger   *slog.Logger
}

func (cfg *Config) Validate() error {
	if cfg.Client == nil {
		return errors.New("report client is required")
	}
	if cfg.Gate == nil {
		return errors.New("report gate is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = PollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return nil
}

// Poller drives report jobs on one appliance: submit, wait, collect.
// Every remote call goes through the shared gate.
type Poller struct {
	cfg Config
	log *slog.Logger
}

// NewPoller validates cfg and returns a poller.
func NewPoller(cfg Config) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Poller{cfg: cfg, log: cfg.Logger}, nil
}

// GroupbyResolver is implemented by clients that accept groupby names and
// map them to appliance ids before submission.
type GroupbyResolver interface {
	ResolveGroupby(ctx context.Context, name string) (string, error)
}

// Submit creates the report job for args. Groupby names are resolved
// before the gate is taken.
func (p *Poller) Submit(ctx context.Context, args *domain.ReportArgs) (*domain.ReportHandle, error) {
	if r, ok := p.cfg.Client.(GroupbyResolver); ok && args.Groupby != "" {
		id, err := r.ResolveGroupby(ctx, args.Groupby)
		if err != nil {
			return nil, fmt.Errorf("failed to submit %s report: %w", args.Realm, err)
		}
		if id != args.Groupby {
			resolved := *args
			resolved.Groupby = id
			args = &resolved
		}
	}

	var h *domain.ReportHandle
	err := p.cfg.Gate.Do(func() error {
		var err error
		h, err = p.cfg.Client.Submit(ctx, args)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s report: %w", args.Realm, err)
	}
	p.log.Debug("Submitted report", "id", h.ID, "realm", args.Realm, "groupby", args.Groupby)
	return h, nil
}

// Wait blocks until the job behind h completes.
//
// Each iteration sleeps for the configured interval outside the gate, then
// fetches the status under it and publishes progress mapped into
// [minPct, maxPct]. There is no attempt limit and no backoff. Any status
// other than running or completed, or a failed status request, ends the
// wait with domain.ErrJobFailed.
// Cancelling ctx ends it with ctx.Err().
func (p *Poller) Wait(ctx context.Context, h *domain.ReportHandle, minPct, maxPct int, sink ProgressSink) error {
	p.log.Info("Waiting for report to complete", "id", h.ID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.cfg.Clock.After(p.cfg.Interval):
		}

		var st *domain.ReportStatus
		err := p.cfg.Gate.Do(func() error {
			var err error
			st, err = p.cfg.Client.Status(ctx, h)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: status of report %s: %w", domain.ErrJobFailed, h.ID, err)
		}

		p.log.Debug("Report status", "id", h.ID, "status", st.Status, "percent", st.Percent)
		sink.Progress(MapProgress(int(st.Percent), minPct, maxPct))

		switch st.Status {
		case domain.StatusCompleted:
			return nil
		case domain.StatusRunning:
		default:
			return fmt.Errorf("%w: report %s ended in %q state", domain.ErrJobFailed, h.ID, st.Status)
		}
	}
}

// Collect fetches the completed job's rows and the window it actually
// covered, then publishes the window to sink.
func (p *Poller) Collect(ctx context.Context, h *domain.ReportHandle, columns []string, sink ProgressSink) ([][]any, domain.TimeFilter, error) {
	var (
		rows   [][]any
		window domain.TimeFilter
	)
	err := p.cfg.Gate.Do(func() error {
		var err error
		if rows, err = p.cfg.Client.Data(ctx, h, columns); err != nil {
			return fmt.Errorf("failed to fetch data for report %s: %w", h.ID, err)
		}
		if window, err = p.cfg.Client.ActualWindow(ctx, h); err != nil {
			return fmt.Errorf("failed to fetch window for report %s: %w", h.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.TimeFilter{}, err
	}
	sink.UpdateCriteria(window)
	return rows, window, nil
}

// MapProgress scales a job's own percentage p into [minPct, maxPct] so
// several jobs can share one progress bar. p is clamped to 0..100.
func MapProgress(p, minPct, maxPct int) int {
	p = max(0, min(p, 100))
	return minPct + p*(maxPct-minPct)/100
}
