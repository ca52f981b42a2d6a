// ABOUTME: Tests for the backend HTTP client
// ABOUTME: Uses httptest servers to verify paths, payloads, auth and error mapping
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/workspace"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o := Options{BaseURL: srv.URL + "/"}
	for _, fn := range opts {
		fn(&o)
	}
	client, err := NewClient(o)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{})
	assert.ErrorIs(t, err, ErrEmptyBaseURL)

	_, err = NewClient(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewClient(Options{BaseURL: "http://localhost:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

func TestListSignals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/signals", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "company": "Acme", "signal": "visited pricing page", "time": "09:00"},
			{"id": 2, "company": "Globex", "signal": "hiring VP Sales", "time": "09:05", "category": "Hiring"}
		]`))
	})

	signals, err := client.ListSignals(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, "Acme", signals[0].Company)
	assert.Equal(t, "Hiring", signals[1].Category)
}

func TestProcessLead_SendsCompanyAndSignal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process-lead", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"company": "Acme", "signal": "visited pricing page"}, body)

		_, _ = w.Write([]byte(`{"score": 82, "assets": {"email": "Hi..."}, "logs": ["scored lead"]}`))
	})

	res, err := client.ProcessLead(context.Background(), models.ProcessLeadRequest{
		Company: "Acme",
		Signal:  "visited pricing page",
	})
	require.NoError(t, err)
	assert.Equal(t, 82, res.Score)
	assert.Equal(t, "Hi...", res.Assets.Email)
}

func TestBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}, func(o *Options) { o.Token = "s3cret" })

	_, err := client.ListSignals(context.Background())
	require.NoError(t, err)
}

func TestStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.ProcessLead(context.Background(), models.ProcessLeadRequest{Company: "Acme"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "model overloaded", statusErr.Body)
	assert.Contains(t, err.Error(), "/process-lead")
}

func TestProcessLead_NullBodyIsFailedGeneration(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	res, err := client.ProcessLead(context.Background(), models.ProcessLeadRequest{Company: "Acme", Signal: "s"})
	require.NoError(t, err)
	assert.Nil(t, res)

	ws := workspace.New(nil)
	state, err := ws.Generate(context.Background(), client, models.Signal{ID: 1, Company: "Acme", Signal: "s"})
	assert.ErrorIs(t, err, workspace.ErrEmptyResult)
	assert.Nil(t, state.Result)
	assert.False(t, state.Processing)
	assert.Equal(t, workspace.StatusFailed, workspace.Project(state).Status)
}

func TestDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.ListSignals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(o *Options) { o.Timeout = 20 * time.Millisecond })
	defer close(release)

	_, err := client.ListSignals(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunsAndCRMEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/runs":
			_, _ = w.Write([]byte(`[{"run_id": "Acme-1", "company": "Acme", "score": 75}]`))
		case "/crm/events":
			_, _ = w.Write([]byte(`[{"run_id": "Acme-1", "crm": "HubSpot", "status": "synced"}]`))
		case "/crm/sync":
			var ev models.CRMEvent
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
			assert.Equal(t, "Acme-1", ev.RunID)
			assert.Equal(t, "Jane", ev.Payload["owner"])
			_, _ = w.Write([]byte(`{"ok": true, "stored": {"run_id": "Acme-1", "crm": "HubSpot", "status": "queued"}}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	runs, err := client.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Acme-1", runs[0].RunID)

	events, err := client.ListCRMEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "HubSpot", events[0].CRM)

	resp, err := client.SyncCRM(ctx, models.CRMEvent{
		RunID:   "Acme-1",
		CRM:     "HubSpot",
		Status:  models.CRMStatusQueued,
		Payload: map[string]interface{}{"owner": "Jane"},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	_, err = client.SyncCRM(ctx, models.CRMEvent{})
	assert.Error(t, err, "run_id required")
}
