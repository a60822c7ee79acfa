package runstore

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Lifecycle(t *testing.T) {
	repo := tempRepo(t)
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	criteria := domain.Criteria{Device: "np1", StartTime: start, EndTime: start.Add(time.Hour)}

	rec, err := Start(repo, "traffic-summary", "np1", criteria, nil)
	require.NoError(t, err)
	id := rec.Record().ID
	require.NotZero(t, id)

	rec.Transition(report.StateSubmitted)
	rec.Submitted(&domain.ReportHandle{ID: "77"})
	rec.Transition(report.StatePolling)
	rec.Progress(40)

	got, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "polling", got.State)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, "77", got.ReportID)

	actual := domain.TimeFilter{Start: start.Add(-time.Minute), End: start.Add(59 * time.Minute)}
	rec.UpdateCriteria(actual)
	rec.Transition(report.StateCompleted)
	rec.Transition(report.StateReshaped)

	got, err = repo.Get(id)
	require.NoError(t, err)
	assert.True(t, got.Finished())
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.WindowStart.Equal(actual.Start))

	var saved domain.Criteria
	require.NoError(t, json.Unmarshal([]byte(got.Criteria), &saved))
	assert.True(t, saved.StartTime.Equal(actual.Start))
	assert.True(t, saved.EndTime.Equal(actual.End))
	assert.Equal(t, "np1", saved.Device)
}

func TestRecorder_Fail(t *testing.T) {
	repo := tempRepo(t)
	rec, err := Start(repo, "wan", "np1", domain.Criteria{}, nil)
	require.NoError(t, err)

	rec.Fail(errors.New("boom"))
	rec.Transition(report.StateErrored)

	got, err := repo.Get(rec.Record().ID)
	require.NoError(t, err)
	assert.Equal(t, "errored", got.State)
	assert.Equal(t, "boom", got.ErrorMessage)
}
