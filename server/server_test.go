package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/TravisS25/chartbuilder/charttest"
	"github.com/TravisS25/chartbuilder/editor"
	"github.com/TravisS25/chartbuilder/form"
	"github.com/TravisS25/chartbuilder/render"
	"github.com/TravisS25/chartbuilder/server"
	"github.com/TravisS25/chartbuilder/store"
	"github.com/gorilla/websocket"
	"github.com/stretchr/objx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, loader *render.Loader, settings server.Settings) (*server.Server, *editor.Registry) {
	t.Helper()

	log, _ := charttest.NewLogger()
	registry := editor.NewRegistry(editor.Config{
		Loader:  loader,
		Adapter: store.NewAdapter(store.NewMemoryStore(), "", log),
		NewRand: func() *rand.Rand { return rand.New(rand.NewSource(1)) },
		Log:     log,
	})

	return server.New(registry, settings, log), registry
}

func do(t *testing.T, h http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, url, reader)

	if body != nil {
		req.Header.Set("Content-Type", server.ContentTypeJSON)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("err: %s\n body: %s\n", err.Error(), rr.Body.String())
	}
}

func mounted(t *testing.T, h http.Handler, id string) {
	t.Helper()

	rr := do(t, h, http.MethodGet, "/charts?id="+id, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/charts/"+id, rr.Header().Get(server.LocationHeader))
}

func TestOpenDerivedUnitTest(t *testing.T) {
	s, registry := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/charts?parent=main&position=1", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	location := rr.Header().Get(server.LocationHeader)
	assert.True(t, strings.HasPrefix(location, "/charts/chart-main-1-"), location)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/charts?parent=main&position=1", nil)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	again := httptest.NewRecorder()
	h.ServeHTTP(again, req)

	assert.Equal(t, location, again.Header().Get(server.LocationHeader), "session should remember the mount")
	assert.Equal(t, 1, registry.Len())

	other := do(t, h, http.MethodGet, "/charts?parent=main&position=1", nil)
	assert.NotEqual(t, location, other.Header().Get(server.LocationHeader), "new session should get a new mount")

	rr = do(t, h, http.MethodGet, "/charts?parent=main&position=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPageUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/charts/sales", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, server.ContentTypeHTML, rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, `data-instance="sales"`)
	assert.Contains(t, body, `id="dataset-label-0"`)
	assert.Contains(t, body, `id="chart-preview"`)
	assert.Contains(t, body, chart.DefaultTitle)
	assert.Contains(t, body, `data-color="#4dc9f6"`)

	rr = do(t, h, http.MethodPost, "/charts/sales/view", server.ViewRequest{EditorVisible: new(bool)})
	require.Equal(t, http.StatusOK, rr.Code)

	body = do(t, h, http.MethodGet, "/charts/sales", nil).Body.String()
	assert.Contains(t, body, `id="chart-display"`)
	assert.NotContains(t, body, `id="dataset-label-0"`)
}

func TestPageFailedLibraryUnitTest(t *testing.T) {
	s, _ := newServer(t, charttest.FailingLoader(), server.Settings{})
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/charts/sales", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load the charting library")

	rr = do(t, h, http.MethodPost, "/charts/sales/datasets", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestEventsUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()
	mounted(t, h, "sales")

	rr := do(t, h, http.MethodPost, "/charts/sales/events", form.Event{
		ID: form.TitleID, Type: form.ChangeEvent, Value: "Sales",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res server.EventResponse
	decodeBody(t, rr, &res)
	assert.True(t, res.Outcome.Committed)
	assert.Equal(t, "Sales", res.State.Config.Options.Plugins.Title.Text)

	rr = do(t, h, http.MethodPost, "/charts/sales/events", form.Event{
		ID: form.DatasetControlID(form.DatasetLineWidthPrefix, 0), Type: form.ChangeEvent, Value: "abc",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	body := objx.MustFromJSON(rr.Body.String())
	assert.True(t, body.Get("outcome.rejected").Bool())
	assert.False(t, body.Get("outcome.committed").Bool())
	assert.Equal(t, "Sales", body.Get("state.config.options.plugins.title.text").Str())

	rr = do(t, h, http.MethodPost, "/charts/sales/events", form.Event{ID: "dataset-label-9", Type: form.ChangeEvent})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/events", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/events", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/missing/events", form.Event{ID: form.TitleID, Type: form.ChangeEvent})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDatasetsUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()
	mounted(t, h, "sales")

	rr := do(t, h, http.MethodPost, "/charts/sales/datasets", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var index server.IndexResponse
	decodeBody(t, rr, &index)
	assert.Equal(t, 1, index.Index)

	rr = do(t, h, http.MethodPost, "/charts/sales/datasets/1/select", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/palette", server.PaletteRequest{Color: "#ff595e"})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &index)
	assert.Equal(t, 1, index.Index)

	rr = do(t, h, http.MethodPost, "/charts/sales/palette", server.PaletteRequest{Color: "red"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/datasets/7/select", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var removed server.RemoveResponse

	rr = do(t, h, http.MethodDelete, "/charts/sales/datasets/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &removed)
	assert.True(t, removed.Removed)

	rr = do(t, h, http.MethodDelete, "/charts/sales/datasets/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &removed)
	assert.False(t, removed.Removed, "last dataset should never be removed")
}

func TestViewUpdateUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()
	mounted(t, h, "sales")

	rr := do(t, h, http.MethodPost, "/charts/sales/view", server.ViewRequest{Tab: form.LayoutTab})
	require.Equal(t, http.StatusOK, rr.Code)

	var state editor.State
	decodeBody(t, rr, &state)
	assert.Equal(t, form.LayoutTab, state.View.ActiveTab)

	rr = do(t, h, http.MethodPost, "/charts/sales/view", server.ViewRequest{Tab: "gone"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/update", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &state)
	assert.Equal(t, form.PreviewTab, state.View.ActiveTab)

	rr = do(t, h, http.MethodGet, "/charts/sales/surfaces/chart-preview", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, chart.DefaultTitle, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/charts/sales/surfaces/canvas", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/charts/sales/config", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var config chart.ChartConfig
	decodeBody(t, rr, &config)
	assert.Equal(t, chart.LineChartType, config.Type)
	assert.Len(t, config.Data.Datasets, 1)
}

func TestSaveExportImportUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()
	mounted(t, h, "sales")
	mounted(t, h, "copy")

	do(t, h, http.MethodPost, "/charts/sales/datasets", nil)

	rr := do(t, h, http.MethodPost, "/charts/sales/save", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/charts/sales/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="chart-settings-sales.json"`, rr.Header().Get(server.ContentDispositionHeader))

	exported := rr.Body.Bytes()

	rr = do(t, h, http.MethodPost, "/charts/copy/import", exported)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var doc chart.Document
	decodeBody(t, rr, &doc)
	assert.Len(t, doc.Datasets, 2)

	rr = do(t, h, http.MethodGet, "/charts/copy/config", nil)

	var config chart.ChartConfig
	decodeBody(t, rr, &config)
	assert.Len(t, config.Data.Datasets, 2)

	rr = do(t, h, http.MethodPost, "/charts/copy/import", []byte(`{"datasets":[]}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/copy/import", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttributesUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	h := s.Handler()
	mounted(t, h, "sales")

	var res server.AttributeResponse

	rr := do(t, h, http.MethodPost, "/charts/sales/attributes", server.AttributeRequest{
		Name: editor.ChartTitleAttribute, Value: "Quarterly",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &res)
	assert.Equal(t, "sales", res.ID)

	rr = do(t, h, http.MethodPost, "/charts/sales/attributes", server.AttributeRequest{Name: "color"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/charts/sales/attributes", server.AttributeRequest{
		Name: editor.InstanceIDAttribute, Value: "revenue",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &res)
	assert.Equal(t, "revenue", res.ID)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/charts/revenue/config", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/charts/sales/config", nil).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/charts/revenue", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/charts/revenue", nil).Code)
}

func TestLiveUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/charts?id=sales")
	require.NoError(t, err)
	res.Body.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/charts/sales/live", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(form.Event{ID: form.BorderWidthID, Type: form.InputEvent, Value: "4"}))

	var msg struct {
		Outcome form.Outcome `json:"outcome"`
		Error   string       `json:"error"`
	}

	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.Outcome.Committed)
	assert.Equal(t, "4px", msg.Outcome.ReadOut)
	assert.Empty(t, msg.Error)

	require.NoError(t, conn.WriteJSON(form.Event{ID: form.TitleID, Type: form.InputEvent, Value: "ignored"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.False(t, msg.Outcome.Committed, "discrete controls should ignore input ticks")

	require.NoError(t, conn.WriteJSON(form.Event{ID: "missing", Type: form.InputEvent}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.NotEmpty(t, msg.Error)
}

func TestCSRFUnitTest(t *testing.T) {
	s, _ := newServer(t, (&charttest.FakeLibrary{}).Loader(), server.Settings{
		CSRF: server.CSRFSetting{AuthKey: "0123456789abcdef0123456789abcdef"},
	})
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/charts/sales", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(server.TokenHeader))
	assert.Contains(t, rr.Body.String(), `name="csrf-token"`)

	rr = do(t, h, http.MethodPost, "/charts/sales/datasets", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
