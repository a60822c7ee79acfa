package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory ReportClient. Each submitted handle walks
// through statuses one poll at a time, repeating the last entry.
type fakeClient struct {
	mu sync.Mutex

	statuses  []domain.ReportStatus
	statusErr error
	submitErr error
	data      func(args *domain.ReportArgs) [][]any
	window    domain.TimeFilter

	submitted []*domain.ReportArgs
	polls     map[string]int

	inFlight    int
	maxInFlight int
}

func newFakeClient(statuses ...domain.ReportStatus) *fakeClient {
	if len(statuses) == 0 {
		statuses = []domain.ReportStatus{{Percent: 100, Status: domain.StatusCompleted}}
	}
	return &fakeClient{
		statuses: statuses,
		polls:    make(map[string]int),
		data:     func(*domain.ReportArgs) [][]any { return nil },
	}
}

func (f *fakeClient) enter() func() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	time.Sleep(100 * time.Microsecond)
	return func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}
}

func (f *fakeClient) Submit(_ context.Context, args *domain.ReportArgs) (*domain.ReportHandle, error) {
	defer f.enter()()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, args)
	return &domain.ReportHandle{ID: fmt.Sprintf("r%d", len(f.submitted)), Args: args}, nil
}

func (f *fakeClient) Status(_ context.Context, h *domain.ReportHandle) (*domain.ReportStatus, error) {
	defer f.enter()()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	n := f.polls[h.ID]
	f.polls[h.ID] = n + 1
	st := f.statuses[min(n, len(f.statuses)-1)]
	return &st, nil
}

func (f *fakeClient) Data(_ context.Context, h *domain.ReportHandle, _ []string) ([][]any, error) {
	defer f.enter()()
	return f.data(h.Args), nil
}

func (f *fakeClient) ActualWindow(context.Context, *domain.ReportHandle) (domain.TimeFilter, error) {
	defer f.enter()()
	return f.window, nil
}

func (f *fakeClient) pollCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[id]
}

// recordingSink captures everything a run publishes.
type recordingSink struct {
	mu       sync.Mutex
	progress []int
	states   []State
	window   domain.TimeFilter
	err      error
}

func (s *recordingSink) Progress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
}

func (s *recordingSink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *recordingSink) UpdateCriteria(w domain.TimeFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = w
}

func (s *recordingSink) Transition(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, st)
}

func newTestPoller(t *testing.T, client domain.ReportClient) *Poller {
	t.Helper()
	p, err := NewPoller(Config{
		Client:   client,
		Gate:     NewGate(),
		Interval: time.Millisecond,
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	return p
}
