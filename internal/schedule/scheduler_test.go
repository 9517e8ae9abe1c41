package schedule

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/bearobot/internal/config"
	"github.com/aatumaykin/bearobot/internal/logger"
	"github.com/aatumaykin/bearobot/internal/purge"
)

type mockService struct {
	mu         sync.Mutex
	err        error
	requests   []purge.Request
	responders []purge.Responder
}

func (m *mockService) Run(ctx context.Context, req purge.Request, responder purge.Responder) (*purge.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	m.responders = append(m.responders, responder)
	if m.err != nil {
		return nil, m.err
	}
	return &purge.Result{RunID: "run-1", Outcome: purge.OutcomeNoMatches}, nil
}

func (m *mockService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type stubResponder struct{ channelID string }

func (r *stubResponder) Reply(context.Context, string) (purge.StatusMessage, error) {
	return nil, errors.New("not used")
}

func testJob() Job {
	return Job{
		Name:     "nightly",
		Schedule: "0 3 * * *",
		Request:  purge.Request{ChannelID: "123456789012345678", Pattern: "spam", DurationMinutes: 1440},
	}
}

func TestJobsFromConfig(t *testing.T) {
	jobs := JobsFromConfig([]config.ScheduleConfig{{
		Name:            "nightly",
		Schedule:        "0 3 * * *",
		ChannelID:       "1",
		Pattern:         "spam",
		DurationMinutes: 1440,
		ReportChannelID: "2",
	}})

	require.Len(t, jobs, 1)
	assert.Equal(t, "nightly", jobs[0].Name)
	assert.Equal(t, purge.Request{ChannelID: "1", Pattern: "spam", DurationMinutes: 1440}, jobs[0].Request)
	assert.Empty(t, jobs[0].Request.InvokerID, "scheduled runs are system requests")
	assert.Equal(t, "2", jobs[0].ReportChannelID)
}

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(&mockService{}, nil, nil)

	require.NoError(t, s.AddJob(testJob()))
	assert.Len(t, s.ListJobs(), 1)

	next, ok := s.NextRun("nightly")
	assert.True(t, ok)
	assert.True(t, next.IsZero(), "entries have no next run before Start")

	err := s.AddJob(testJob())
	assert.ErrorContains(t, err, "duplicate schedule name")

	bad := testJob()
	bad.Name = "bad"
	bad.Schedule = "every tuesday"
	assert.ErrorContains(t, s.AddJob(bad), "invalid cron expression")

	withSeconds := testJob()
	withSeconds.Name = "seconds"
	withSeconds.Schedule = "30 0 3 * * *"
	assert.NoError(t, s.AddJob(withSeconds))

	_, ok = s.NextRun("missing")
	assert.False(t, ok)
}

func TestScheduler_ExecuteJob(t *testing.T) {
	t.Run("logs status without report channel", func(t *testing.T) {
		service := &mockService{}
		buf := &bytes.Buffer{}
		s := NewScheduler(service, nil, logger.NewWithWriter(buf, "info"))
		require.NoError(t, s.Start(context.Background()))
		defer func() { _ = s.Stop() }()

		s.executeJob(testJob())

		require.Equal(t, 1, service.calls())
		assert.Equal(t, testJob().Request, service.requests[0])
		assert.IsType(t, &purge.LogStatus{}, service.responders[0])
		assert.Contains(t, buf.String(), "scheduled purge finished")
		assert.Contains(t, buf.String(), `"schedule":"nightly"`)
	})

	t.Run("reports into configured channel", func(t *testing.T) {
		service := &mockService{}
		var asked string
		s := NewScheduler(service, func(channelID string) purge.Responder {
			asked = channelID
			return &stubResponder{channelID: channelID}
		}, nil)
		require.NoError(t, s.Start(context.Background()))
		defer func() { _ = s.Stop() }()

		job := testJob()
		job.ReportChannelID = "999"
		s.executeJob(job)

		assert.Equal(t, "999", asked)
		assert.IsType(t, &stubResponder{}, service.responders[0])
	})

	t.Run("errors are logged", func(t *testing.T) {
		service := &mockService{err: errors.New("missing access")}
		buf := &bytes.Buffer{}
		s := NewScheduler(service, nil, logger.NewWithWriter(buf, "info"))
		require.NoError(t, s.Start(context.Background()))
		defer func() { _ = s.Stop() }()

		s.executeJob(testJob())

		assert.Contains(t, buf.String(), "scheduled purge failed")
		assert.Contains(t, buf.String(), "missing access")
	})

	t.Run("not started", func(t *testing.T) {
		service := &mockService{}
		s := NewScheduler(service, nil, nil)

		s.executeJob(testJob())

		assert.Zero(t, service.calls())
	})
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	service := &mockService{}
	s := NewScheduler(service, nil, nil)

	job := testJob()
	job.Schedule = "@every 1s"
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return service.calls() >= 1 }, 3*time.Second, 50*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&mockService{}, nil, nil)

	assert.Error(t, s.Stop(), "stop before start")
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()), "double start")
	require.NoError(t, s.Stop())
}
