// Package server is the http host of chart editors
package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/TravisS25/chartbuilder/editor"
	"github.com/TravisS25/chartbuilder/form"
	"github.com/TravisS25/chartbuilder/render"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	idParam      = "{id}"
	indexParam   = "{index:[0-9]+}"
	targetParam  = "{target}"
	maxBodyBytes = 1 << 20
)

//////////////////////////////////////////////////////////////////
//------------------------- PAYLOADS ---------------------------
//////////////////////////////////////////////////////////////////

// EventResponse is the payload answering a form event
type EventResponse struct {
	Outcome form.Outcome `json:"outcome"`
	State   editor.State `json:"state"`
}

// IndexResponse names the dataset an operation touched
type IndexResponse struct {
	Index int `json:"index"`
}

// RemoveResponse reports whether a dataset was removed
type RemoveResponse struct {
	Removed bool `json:"removed"`
}

// PaletteRequest applies a palette color to the selected dataset
type PaletteRequest struct {
	Color string `json:"color"`
}

// ViewRequest switches tab and/or editor visibility
type ViewRequest struct {
	Tab           form.Tab `json:"tab,omitempty"`
	EditorVisible *bool    `json:"editorVisible,omitempty"`
}

// AttributeRequest sets a host attribute
type AttributeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AttributeResponse carries the id of the editor after an attribute
// was set, which changes with the instance-id attribute
type AttributeResponse struct {
	ID string `json:"id"`
}

//////////////////////////////////////////////////////////////////
//-------------------------- SERVER ----------------------------
//////////////////////////////////////////////////////////////////

// Server routes http requests to the editors of a registry
type Server struct {
	registry *editor.Registry
	settings Settings
	sessions sessions.Store
	upgrader websocket.Upgrader
	router   *mux.Router
	log      *logrus.Entry
}

// New returns a server hosting the editors of registry
func New(registry *editor.Registry, settings Settings, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if settings.Session.Name == "" {
		settings.Session.Name = "chartbuilder"
	}

	s := &Server{
		registry: registry,
		settings: settings,
		sessions: NewSessionStore(settings.Session, settings.Prod),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		router:   mux.NewRouter(),
		log:      log,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	chartPath := "/charts/" + idParam
	datasetPath := chartPath + "/datasets/" + indexParam

	r.HandleFunc("/charts", s.open).Methods(http.MethodGet)
	r.HandleFunc(chartPath, s.page).Methods(http.MethodGet)
	r.HandleFunc(chartPath, s.close).Methods(http.MethodDelete)
	r.HandleFunc(chartPath+"/events", s.events).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/live", s.live).Methods(http.MethodGet)
	r.HandleFunc(chartPath+"/datasets", s.addDataset).Methods(http.MethodPost)
	r.HandleFunc(datasetPath, s.removeDataset).Methods(http.MethodDelete)
	r.HandleFunc(datasetPath+"/select", s.selectDataset).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/palette", s.palette).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/view", s.view).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/update", s.update).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/save", s.save).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/export", s.export).Methods(http.MethodGet)
	r.HandleFunc(chartPath+"/import", s.importDocument).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/attributes", s.attributes).Methods(http.MethodPost)
	r.HandleFunc(chartPath+"/config", s.config).Methods(http.MethodGet)
	r.HandleFunc(chartPath+"/surfaces/"+targetParam, s.surface).Methods(http.MethodGet)
}

// Handler returns the http handler of the server
//
// Form posts are csrf protected when a csrf key is configured
func (s *Server) Handler() http.Handler {
	if s.settings.CSRF.AuthKey == "" {
		return s.router
	}

	protect := csrf.Protect(
		[]byte(s.settings.CSRF.AuthKey),
		csrf.Secure(s.settings.CSRF.Secure),
		csrf.RequestHeader(TokenHeader),
		csrf.Path("/"),
	)

	return protect(s.router)
}

//////////////////////////////////////////////////////////////////
//-------------------------- HELPERS ---------------------------
//////////////////////////////////////////////////////////////////

// editor returns the editor named by the id route var, sending a not
// found response when there is none
func (s *Server) editor(w http.ResponseWriter, r *http.Request) (*editor.Editor, bool) {
	id := mux.Vars(r)["id"]
	e, ok := s.registry.Get(id)

	if !ok {
		SendError(w, http.StatusNotFound, fmt.Sprintf("chart %q is not mounted", id))
		return nil, false
	}

	return e, true
}

// index returns the dataset index route var
func index(r *http.Request) int {
	i, _ := strconv.Atoi(mux.Vars(r)["index"])
	return i
}

// statusOf maps errors of the editor packages to an http status
func statusOf(err error) int {
	switch errors.Cause(err) {
	case form.ErrUnknownControl, form.ErrUnknownEvent, form.ErrUnknownTab, form.ErrInvalidValue,
		chart.ErrNoDocument, chart.ErrInvalidDocument, chart.ErrUnknownChartType,
		editor.ErrUnknownDataset, editor.ErrUnknownAttribute,
		ErrBodyRequired, ErrInvalidJSON:
		return http.StatusBadRequest
	case editor.ErrNotMounted:
		return http.StatusNotFound
	case render.ErrLibraryUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail sends the response of err and logs unexpected errors
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = serverErrTxt
	}

	SendError(w, status, msg)
}

func (s *Server) sendState(w http.ResponseWriter, status int, e *editor.Editor) {
	SendPayload(w, status, e.State(), HTTPResponseConfig{})
}

func decode(w http.ResponseWriter, r *http.Request, form any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return CheckBodyAndDecode(r, form)
}

//////////////////////////////////////////////////////////////////
//------------------------- LIFECYCLE --------------------------
//////////////////////////////////////////////////////////////////

// open mounts the editor placed at the parent and position query
// values and redirects to it
//
// An id query value is used as the explicit instance id
func (s *Server) open(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mount := editor.Mount{ID: q.Get("id")}

	if mount.Derived() {
		position, err := strconv.Atoi(q.Get("position"))

		if q.Get("position") != "" && err != nil {
			SendError(w, http.StatusBadRequest, "position must be a number")
			return
		}

		if mount, err = s.rememberMount(w, r, q.Get("parent"), position); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	// a failed editor is still registered and shows its error page
	s.registry.Open(r.Context(), mount)

	w.Header().Set(LocationHeader, "/charts/"+url.PathEscape(mount.InstanceID()))
	w.WriteHeader(http.StatusSeeOther)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := s.registry.Get(id)

	if !ok {
		e, _ = s.registry.Open(r.Context(), editor.Mount{ID: id})
	}

	SetToken(w, r)

	state := e.State()
	status := http.StatusOK

	if state.Failed {
		status = http.StatusServiceUnavailable
	}

	if err := renderPage(w, status, pageData{State: state, Token: csrf.Token(r)}); err != nil {
		s.log.WithError(err).WithField("instance", id).Error("could not render page")
	}
}

func (s *Server) close(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Close(mux.Vars(r)["id"]) {
		SendError(w, http.StatusNotFound, "chart is not mounted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

//////////////////////////////////////////////////////////////////
//-------------------------- EDITING ---------------------------
//////////////////////////////////////////////////////////////////

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	var ev form.Event

	if err := decode(w, r, &ev); err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := e.Dispatch(r.Context(), ev)

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusOK, EventResponse{Outcome: out, State: e.State()}, HTTPResponseConfig{})
}

// live streams input ticks of live controls over a websocket
//
// Every message is a form event answered by its outcome
func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)

	if err != nil {
		s.log.WithError(err).Warn("could not upgrade live channel")
		return
	}
	defer conn.Close()

	log := s.log.WithField("instance", e.ID())
	log.Debug("live channel opened")

	for {
		var ev form.Event

		if err = conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("live channel closed")
			}

			return
		}

		out, err := e.Dispatch(r.Context(), ev)
		msg := map[string]any{"outcome": out}

		if err != nil {
			msg["error"] = err.Error()
		}

		if err = conn.WriteJSON(msg); err != nil {
			log.WithError(err).Debug("could not write live outcome")
			return
		}
	}
}

func (s *Server) addDataset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	i, err := e.AddDataset(r.Context())

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusCreated, IndexResponse{Index: i}, HTTPResponseConfig{})
}

func (s *Server) removeDataset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	removed, err := e.RemoveDataset(r.Context(), index(r))

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusOK, RemoveResponse{Removed: removed}, HTTPResponseConfig{})
}

func (s *Server) selectDataset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	if err := e.SelectDataset(r.Context(), index(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) palette(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	var req PaletteRequest

	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	i, err := e.ApplyPaletteColor(r.Context(), req.Color)

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusOK, IndexResponse{Index: i}, HTTPResponseConfig{})
}

//////////////////////////////////////////////////////////////////
//--------------------------- VIEW -----------------------------
//////////////////////////////////////////////////////////////////

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	var req ViewRequest

	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var err error

	if req.Tab != "" {
		err = e.SetTab(r.Context(), req.Tab)
	}

	if err == nil && req.EditorVisible != nil {
		if *req.EditorVisible {
			err = e.ShowEditor(r.Context())
		} else {
			err = e.HideEditor(r.Context())
		}
	}

	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.sendState(w, http.StatusOK, e)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	if err := e.UpdateChart(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}

	s.sendState(w, http.StatusOK, e)
}

func (s *Server) surface(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	html, ok := e.Surface(mux.Vars(r)["target"])

	if !ok {
		SendError(w, http.StatusNotFound, "unknown surface")
		return
	}

	w.Header().Set("Content-Type", ContentTypeHTML)
	io.WriteString(w, html)
}

func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	SendPayload(w, http.StatusOK, e.Config(), HTTPResponseConfig{})
}

//////////////////////////////////////////////////////////////////
//---------------------- SAVE / TRANSFER -----------------------
//////////////////////////////////////////////////////////////////

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	if err := e.Save(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	b, filename, err := e.Export(r.Context())

	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set(ContentDispositionHeader, fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(b)
}

func (s *Server) importDocument(w http.ResponseWriter, r *http.Request) {
	e, ok := s.editor(w, r)

	if !ok {
		return
	}

	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err != nil {
		s.fail(w, r, errors.Wrap(ErrBodyRequired, err.Error()))
		return
	}

	doc, err := e.Import(r.Context(), b)

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusOK, doc, HTTPResponseConfig{})
}

func (s *Server) attributes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AttributeRequest

	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	newID, err := s.registry.SetAttribute(r.Context(), id, req.Name, req.Value)

	if err != nil {
		s.fail(w, r, err)
		return
	}

	SendPayload(w, http.StatusOK, AttributeResponse{ID: newID}, HTTPResponseConfig{})
}
