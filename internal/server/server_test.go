package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/metrics"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/themes"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T, options ...Option) (*Server, *client) {
	t.Helper()
	srv, err := New(options...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) get(path string) (int, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, string(body)
}

func (c *client) post(path string, payload any) (int, StateResponse) {
	c.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(c.t, err)
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(raw))
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var state StateResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&state))
	}
	return resp.StatusCode, state
}

func (c *client) answer(action string, value string, required bool) StateResponse {
	c.t.Helper()
	status, state := c.post("/api/placement", map[string]any{"action": action, "value": value, "required": required})
	require.Equal(c.t, http.StatusOK, status)
	return state
}

func TestServer_PlacementFlowOverHTTP(t *testing.T) {
	_, c := newTestServer(t)

	status, page := c.get("/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "Drag elements here...")
	assert.NotContains(t, page, "fb-submit")

	status, state := c.post("/api/drag/start", map[string]any{"kind": "select"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, state.Form.Dragging)

	status, state = c.post("/api/drag/hover", map[string]any{"over": true})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, state.Form.Hover)

	status, state = c.post("/api/drag/drop", map[string]any{"onTarget": true})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, state.Pending)
	assert.Equal(t, placement.StepAwaitingLabel, state.Pending.Step)
	assert.Equal(t, "Dropdown", state.Pending.Default)

	state = c.answer("label", "Topic", false)
	assert.Equal(t, placement.StepAwaitingRequired, state.Step)

	state = c.answer("required", "", true)
	require.NotNil(t, state.Pending)
	assert.Equal(t, "Option 1, Option 2, Option 3", state.Pending.Default)

	state = c.answer("options", "Sales, Support ,Other", false)
	assert.Equal(t, placement.StepCommitted, state.Step)
	assert.Nil(t, state.Pending)
	require.Len(t, state.Form.Fields, 1)
	assert.Equal(t, []string{"Sales", "Support", "Other"}, state.Form.Fields[0].Options)
	assert.True(t, state.Form.Fields[0].Required)

	status, preview := c.get("/preview")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, strings.Count(preview, `class="fb-submit"`))
	assert.Contains(t, preview, `<option value="Support">Support</option>`)
	assert.NotContains(t, preview, "<html")
}

func TestServer_CancelledLabelLeavesDraftEmpty(t *testing.T) {
	_, c := newTestServer(t)

	_, _ = c.post("/api/drag/start", map[string]any{"kind": "text"})
	status, _ := c.post("/api/drag/drop", map[string]any{"onTarget": true})
	require.Equal(t, http.StatusOK, status)

	state := c.answer("cancel", "", false)
	assert.Equal(t, placement.StepAborted, state.Step)
	assert.Empty(t, state.Form.Fields)
	assert.True(t, state.Form.Empty)
}

func TestServer_DropElsewhereAndForeignPayloads(t *testing.T) {
	_, c := newTestServer(t)

	_, _ = c.post("/api/drag/start", map[string]any{"kind": "email"})
	status, state := c.post("/api/drag/drop", map[string]any{"onTarget": false})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, state.Pending)
	assert.False(t, state.Form.Dragging)

	status, _ = c.post("/api/drag/drop", map[string]any{"onTarget": true, "payload": "<img>"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = c.post("/api/drag/start", map[string]any{"kind": "color"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = c.post("/api/drag/drop", map[string]any{"onTarget": true})
	assert.Equal(t, http.StatusConflict, status)

	status, state = c.post("/api/drag/drop", map[string]any{"onTarget": true, "payload": "date"})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, state.Pending)
	assert.Equal(t, "Date Input", state.Pending.Default)
}

func TestServer_ModalDialogBlocksNewGestures(t *testing.T) {
	_, c := newTestServer(t)

	_, _ = c.post("/api/drag/start", map[string]any{"kind": "text"})
	_, _ = c.post("/api/drag/drop", map[string]any{"onTarget": true})

	status, _ := c.post("/api/drag/start", map[string]any{"kind": "email"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.post("/api/placement", map[string]any{"action": "options", "value": "a"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.post("/api/placement", map[string]any{"action": "shout"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.post("/api/placement", map[string]any{"action": "label", "bogus": true})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	srv, first := newTestServer(t)
	_, _ = first.post("/api/drag/start", map[string]any{"kind": "text"})
	_, _ = first.post("/api/drag/drop", map[string]any{"onTarget": true})
	first.answer("label", "Name", false)
	first.answer("required", "", false)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	second := &client{t: t, base: first.base, http: &http.Client{Jar: jar}}
	status, body := second.get("/api/state")
	require.Equal(t, http.StatusOK, status)

	var state StateResponse
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Empty(t, state.Form.Fields)
	assert.Equal(t, 2, srv.sessions.len())
}

func TestServer_ExportOpenAPI(t *testing.T) {
	_, c := newTestServer(t)
	_, _ = c.post("/api/drag/start", map[string]any{"kind": "email"})
	_, _ = c.post("/api/drag/drop", map[string]any{"onTarget": true})
	c.answer("label", "Work email", false)
	c.answer("required", "", true)

	status, body := c.get("/export/openapi.json")
	require.Equal(t, http.StatusOK, status)

	doc, err := openapi3.NewLoader().LoadFromData([]byte(body))
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	schema := doc.Paths.Find("/submissions").Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, []string{"workEmail"}, schema.Required)
	assert.Equal(t, "email", schema.Properties["workEmail"].Value.Format)

	status, body = c.get("/export/draft.json")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"label": "Work email"`)
}

func TestServer_TextRendererAndThemes(t *testing.T) {
	selector, err := themes.NewSelector(themes.DefaultTheme, "", themes.Default())
	require.NoError(t, err)
	_, c := newTestServer(t, WithThemeSelector(selector, themes.DefaultTheme, ""))

	status, body := c.get("/preview?renderer=tui")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Drag elements here...")

	status, body = c.get("/?variant=dark")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "--fb-brand: #6ea8fe")
	assert.Contains(t, body, `data-fb-variant="dark"`)

	status, _ = c.get("/?theme=missing")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.get("/preview?renderer=pdf")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_AssetsHealthAndMetrics(t *testing.T) {
	_, c := newTestServer(t, WithMetrics(metrics.New()))

	status, body := c.get("/assets/formbuilder.js")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/api/placement")

	status, body = c.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	_, _ = c.post("/api/drag/start", map[string]any{"kind": "text"})
	_, _ = c.post("/api/drag/drop", map[string]any{"onTarget": false})

	status, body = c.get("/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `formbuilder_drag_gestures_total{outcome="elsewhere"} 1`)
	assert.Contains(t, body, `formbuilder_http_requests_total{method="GET",route="/assets/",status="200"} 1`)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestServer_IdleBuildersExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	srv, c := newTestServer(t, WithClock(clock.Now), WithSessionTTL(time.Minute))

	_, _ = c.post("/api/drag/start", map[string]any{"kind": "text"})
	_, _ = c.post("/api/drag/drop", map[string]any{"onTarget": true})
	c.answer("label", "Name", false)
	c.answer("required", "", false)
	assert.Equal(t, 1, srv.sessions.len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, srv.sessions.sweep())
	assert.Equal(t, 0, srv.sessions.len())

	status, body := c.get("/api/state")
	require.Equal(t, http.StatusOK, status)
	var state StateResponse
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Empty(t, state.Form.Fields, "expired builder must be remounted empty")
}

func TestSessionStore_AcquireSkipsEntrySweptBeforeLock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mounted := 0
	store := newSessionStore(time.Minute, clock.Now, func() *builder.Builder {
		mounted++
		return builder.New()
	}, zap.NewNop())

	swept := false
	store.afterLookup = func() {
		if !swept {
			swept = true
			store.closeAll()
		}
	}

	rec := httptest.NewRecorder()
	e := store.acquire(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	e.mu.Unlock()

	assert.Equal(t, 2, mounted, "a swept entry must be replaced by a fresh mount")
	assert.Equal(t, 1, store.len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	store.mu.Lock()
	registered := store.entries[cookies[0].Value]
	store.mu.Unlock()
	assert.Same(t, e, registered, "cookie must point at the returned entry")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
