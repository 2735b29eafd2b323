package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/assistant"
	"github.com/warp/solarwork/config"
	"github.com/warp/solarwork/worklog"
)

var now = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)

func state() worklog.Snapshot {
	entry := func(id string, day int, work worklog.Work, workers ...string) worklog.WorkEntry {
		start := time.Date(2025, time.March, day, 7, 0, 0, 0, time.UTC)
		return worklog.Normalize(worklog.WorkEntry{
			ID: id, ProjectID: "p1", WorkerIDs: workers,
			StartTime: start, EndTime: start.Add(2 * time.Hour), Work: work,
		})
	}
	old := entry("old", 1, worklog.Hourly{Description: "fencing"}, "w")
	old.Date = worklog.NewDate(2025, time.January, 5)

	return worklog.Snapshot{
		Projects: []worklog.Project{
			{ID: "p1", Name: "Utena", Status: worklog.StatusActive, Tables: []string{"T1", "T2", "T3", "T4"}},
		},
		Workers: []worklog.Worker{
			{ID: "w", Name: "Jonas", Rate: 10, CableRateMedium: 5},
			{ID: "idle", Name: "Idle", Rate: 8},
		},
		WorkEntries: []worklog.WorkEntry{
			old,
			entry("e1", 10, worklog.Cables{Table: "T1", Size: worklog.SizeMedium}, "w", "ghost"),
			entry("e2", 11, worklog.Paneling{ModuleCount: 40}, "w"),
		},
	}
}

func TestBuildContext(t *testing.T) {
	c := assistant.BuildContext(state(), now)

	require.Len(t, c.Projects, 1)
	assert.Equal(t, assistant.ProjectSummary{
		Name: "Utena", Status: "active", TotalTables: 4, CompletedTables: 1, Progress: "25.0%",
	}, c.Projects[0])

	require.Len(t, c.Workers, 2, "zero earners included")
	assert.Equal(t, "Jonas", c.Workers[0].Name)
	assert.Equal(t, "22.50", c.Workers[0].TotalEarnings) // 20 hourly + 2.5 cables + 0 paneling
	assert.Equal(t, "5.0", c.Workers[0].TotalHoursLogged)
	assert.Equal(t, "0.00", c.Workers[1].TotalEarnings)

	require.Len(t, c.RecentLogs, 2, "entries older than 30 days left out")
	assert.Equal(t, assistant.LogLine{
		Date: "2025-03-10", Project: "Utena", Workers: "Jonas", Type: "cables", Duration: "2.00h", Details: "Table T1",
	}, c.RecentLogs[0])
	assert.Equal(t, "40 modules", c.RecentLogs[1].Details)
}

func TestAsk_APIKey(t *testing.T) {
	var got struct {
		SystemInstruction struct {
			Parts []struct{ Text string } `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Parts []struct{ Text string } `json:"parts"`
		} `json:"contents"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Utena is 25% done."}]}}]}`))
	}))
	defer srv.Close()

	c := assistant.NewClient(config.AssistantConfig{
		Endpoint: srv.URL, Model: "test-model", APIKey: "secret", Timeout: time.Second,
	}, nil)

	answer, err := c.Ask(context.Background(), "How far is Utena?", assistant.BuildContext(state(), now))
	require.NoError(t, err)
	assert.Equal(t, "Utena is 25% done.", answer)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "How far is Utena?", got.Contents[0].Parts[0].Text)
	assert.Contains(t, got.SystemInstruction.Parts[0].Text, `"completedTables":1`)
}

func TestAsk_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("x-goog-api-key"))
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := assistant.NewClient(config.AssistantConfig{
		Endpoint: srv.URL, Model: "m", AccessToken: "tok", Timeout: time.Second,
	}, nil)

	answer, err := c.Ask(context.Background(), "hi", assistant.Context{})
	require.NoError(t, err)
	assert.Equal(t, assistant.NoAnswer, answer)
}

func TestAsk_Unavailable(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := assistant.NewClient(config.AssistantConfig{Endpoint: "http://example.invalid"}, nil)
		_, err := c.Ask(context.Background(), "hi", assistant.Context{})
		assert.ErrorIs(t, err, assistant.ErrUnavailable)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := assistant.NewClient(config.AssistantConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"}, nil)
		_, err := c.Ask(context.Background(), "hi", assistant.Context{})
		assert.ErrorIs(t, err, assistant.ErrUnavailable)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := assistant.NewClient(config.AssistantConfig{Endpoint: url, Model: "m", APIKey: "k", Timeout: time.Second}, nil)
		_, err := c.Ask(context.Background(), "hi", assistant.Context{})
		assert.ErrorIs(t, err, assistant.ErrUnavailable)
	})

	t.Run("empty question", func(t *testing.T) {
		c := assistant.NewClient(config.AssistantConfig{}, nil)
		_, err := c.Ask(context.Background(), strings.Repeat(" ", 3), assistant.Context{})
		assert.True(t, worklog.IsClientError(err))
	})
}
