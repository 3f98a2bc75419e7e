package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FathurrahmanNasution/portfolio/internal/analytics"
	"github.com/FathurrahmanNasution/portfolio/internal/config"
	"github.com/FathurrahmanNasution/portfolio/internal/scrollspy"
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var viewIDPattern = regexp.MustCompile(`data-view-id="([^"]+)"`)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.Mode = gin.TestMode

	store, err := analytics.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s, err := New(Options{Config: cfg, Analytics: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// openView renders the page and returns the id of the view it mounted.
func openView(t *testing.T, s *Server) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", w.Code)
	}
	m := viewIDPattern.FindStringSubmatch(w.Body.String())
	if m == nil {
		t.Fatal("page has no view id")
	}
	return m[1]
}

func do(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var resp stateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding state: %v (%s)", err, w.Body.String())
	}
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error: %v (%s)", err, w.Body.String())
	}
	return resp.Error.Code
}

func TestIndexRendersEverySection(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, id := range section.All() {
		if !strings.Contains(body, `id="`+string(id)+`"`) {
			t.Errorf("page missing section %s", id)
		}
		if !strings.Contains(body, `data-nav-item="`+string(id)+`"`) {
			t.Errorf("nav missing item %s", id)
		}
	}
	if !strings.Contains(body, "Fathurrahman Nasution") {
		t.Error("page missing profile name")
	}
	if !strings.Contains(body, `rel="noopener noreferrer"`) {
		t.Error("external links must not share the opener")
	}
	if !strings.Contains(body, "opacity: 0") {
		t.Error("sections should start hidden")
	}
	if strings.Contains(body, "mobile-menu-static") {
		t.Error("live page uses the server-side menu toggle")
	}
	if s.views.len() != 1 {
		t.Errorf("expected 1 mounted view, got %d", s.views.len())
	}
}

func TestNavigate(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)

	w := do(s, http.MethodPost, "/views/"+id+"/navigate/contact")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var trigger map[string]scrollspy.ScrollIntent
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("decoding HX-Trigger: %v", err)
	}
	intent := trigger[scrollEvent]
	if intent.Target != section.Contact || intent.Behavior != "smooth" || intent.Block != "start" {
		t.Errorf("unexpected scroll intent %+v", intent)
	}
	if !strings.Contains(w.Body.String(), `id="site-nav"`) {
		t.Error("response should be the nav fragment")
	}

	st := decodeState(t, do(s, http.MethodGet, "/views/"+id+"/state"))
	if st.ActiveSection != section.Contact {
		t.Errorf("active: got %q, want contact", st.ActiveSection)
	}
}

func TestNavigateUnknownSection(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)

	w := do(s, http.MethodPost, "/views/"+id+"/navigate/blog")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "SECTION_NOT_FOUND" {
		t.Errorf("code: got %q", code)
	}

	st := decodeState(t, do(s, http.MethodGet, "/views/"+id+"/state"))
	if st.ActiveSection != section.Home {
		t.Errorf("state changed after failed navigation: %q", st.ActiveSection)
	}
}

func TestUnknownViewAsksForRefresh(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/views/missing/navigate/about")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Header().Get("HX-Refresh") != "true" {
		t.Error("expected HX-Refresh header")
	}
	if code := errorCode(t, w); code != "VIEW_NOT_FOUND" {
		t.Errorf("code: got %q", code)
	}
}

func TestToggleMenu(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)

	w := do(s, http.MethodPost, "/views/"+id+"/menu/toggle")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="mobile-menu"`) {
		t.Error("open menu not rendered")
	}
	if st := decodeState(t, do(s, http.MethodGet, "/views/"+id+"/state")); !st.MobileMenuOpen {
		t.Error("menu should be open")
	}

	do(s, http.MethodPost, "/views/"+id+"/menu/toggle")
	do(s, http.MethodPost, "/views/"+id+"/menu/toggle")
	do(s, http.MethodPost, "/views/"+id+"/navigate/skills")
	if st := decodeState(t, do(s, http.MethodGet, "/views/"+id+"/state")); st.MobileMenuOpen {
		t.Error("navigation should close the menu")
	}
}

func dialObserver(t *testing.T, srv *httptest.Server, id string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/views/" + id + "/observe"
	return websocket.DefaultDialer.Dial(u, nil)
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(v); err != nil {
		t.Fatalf("reading message: %v", err)
	}
}

func TestObserveRelaysVisibility(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	conn, _, err := dialObserver(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(clientMessage{Type: "hello", Supported: true}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	var reg observeMessage
	readJSON(t, conn, &reg)
	if reg.Type != "observe" || len(reg.Sections) != len(section.All()) {
		t.Fatalf("unexpected registration %+v", reg)
	}
	if reg.Threshold != scrollspy.DefaultThreshold {
		t.Errorf("threshold: got %v", reg.Threshold)
	}

	batch := clientMessage{Type: "batch", Entries: []scrollspy.Entry{
		{ID: section.About, Ratio: 0.5},
		{ID: section.Skills, Ratio: 0.1},
	}}
	if err := conn.WriteJSON(batch); err != nil {
		t.Fatalf("batch: %v", err)
	}

	var st stateMessage
	readJSON(t, conn, &st)
	if st.Type != "state" {
		t.Fatalf("expected state message, got %q", st.Type)
	}
	if !st.Visibility[section.About] {
		t.Error("about should be visible")
	}
	if v, ok := st.Visibility[section.Skills]; !ok || v {
		t.Errorf("skills should be recorded as not visible, got %v (present %v)", v, ok)
	}
	if st.Styles[section.About].Opacity != 1 || st.Styles[section.Skills].Opacity != 0 {
		t.Errorf("unexpected styles %+v", st.Styles)
	}
	if st.ActiveSection != section.About {
		t.Errorf("active should follow scroll to about, got %q", st.ActiveSection)
	}
}

func TestObserveRejectsBadMessages(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	conn, _, err := dialObserver(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.WriteJSON(clientMessage{Type: "hello", Supported: true})
	var reg observeMessage
	readJSON(t, conn, &reg)

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	var msg map[string]string
	readJSON(t, conn, &msg)
	if msg["type"] != "error" || msg["content"] != "invalid message format" {
		t.Errorf("unexpected reply %v", msg)
	}
}

func TestObserveDropsOversizedFrames(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	conn, _, err := dialObserver(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.WriteJSON(clientMessage{Type: "hello", Supported: true})
	var reg observeMessage
	readJSON(t, conn, &reg)

	huge := bytes.Repeat([]byte("x"), maxMessageSize+1)
	conn.WriteMessage(websocket.TextMessage, huge)

	deadline := time.Now().Add(5 * time.Second)
	for s.views.len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("oversized frame did not end the observation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestObserveUnsupportedRevealsAll(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	conn, _, err := dialObserver(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	conn.WriteJSON(clientMessage{Type: "hello", Supported: false})
	var st stateMessage
	readJSON(t, conn, &st)
	for _, sec := range section.All() {
		if !st.Visibility[sec] {
			t.Errorf("%s should be visible", sec)
		}
	}

	// Navigation still works while the socket is open.
	if w := do(s, http.MethodPost, "/views/"+id+"/navigate/projects"); w.Code != http.StatusOK {
		t.Errorf("navigate after fallback: status %d", w.Code)
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.views.len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("view not unmounted after socket closed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestObserveSecondSocketConflicts(t *testing.T) {
	s := newTestServer(t)
	id := openView(t, s)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	first, _, err := dialObserver(t, srv, id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer first.Close()

	_, resp, err := dialObserver(t, srv, id)
	if err == nil {
		t.Fatal("second observer should be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %v", resp)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/admin/dashboard")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	login := func(user, pass string) *httptest.ResponseRecorder {
		form := url.Values{"username": {user}, "password": {pass}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)
		return w
	}

	if w := login("admin", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", w.Code)
	}

	w := login(s.cfg.Admin.Username, s.cfg.Admin.Password)
	if w.Code != http.StatusFound {
		t.Fatalf("login: expected 302, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != adminCookie {
		t.Fatalf("expected %s cookie, got %v", adminCookie, cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status %d", rec.Code)
	}
	var stats analytics.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if len(stats.Sections) != len(section.All()) {
		t.Errorf("expected counts for every section, got %d", len(stats.Sections))
	}
}

func TestDefaultPasswordWarnsInReleaseMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	for _, tt := range []struct {
		password string
		wantWarn bool
	}{
		{config.DefaultConfig().Admin.Password, true},
		{"s3cret-enough", false},
	} {
		core, logs := observer.New(zap.WarnLevel)
		cfg := config.DefaultConfig()
		cfg.Server.Mode = gin.ReleaseMode
		cfg.Admin.Password = tt.password

		if _, err := New(Options{Config: cfg, Logger: zap.New(core)}); err != nil {
			t.Fatalf("New: %v", err)
		}
		warned := logs.FilterMessageSnippet("default admin password").Len() > 0
		if warned != tt.wantWarn {
			t.Errorf("password %q: warned = %v, want %v", tt.password, warned, tt.wantWarn)
		}
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	if w := do(s, http.MethodGet, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("status %d", w.Code)
	}
}

func TestSweepSkipsAttachedViews(t *testing.T) {
	r := newViewRegistry(time.Minute)
	idle := scrollspy.NewView("idle", section.All(), scrollspy.Options{})
	live := scrollspy.NewView("live", section.All(), scrollspy.Options{})
	r.add(idle)
	r.add(live)
	if !r.attach("live") {
		t.Fatal("attach failed")
	}
	if r.attach("live") {
		t.Error("second attach should fail")
	}

	if n := r.sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("expected 1 expired view, got %d", n)
	}
	if _, ok := r.get("idle"); ok {
		t.Error("idle view should be gone")
	}
	if _, ok := r.get("live"); !ok {
		t.Error("attached view should survive")
	}
}

func TestRenderStatic(t *testing.T) {
	s := newTestServer(t)
	var buf bytes.Buffer
	if err := s.RenderStatic(&buf); err != nil {
		t.Fatalf("RenderStatic: %v", err)
	}
	body := buf.String()
	if strings.Contains(body, "data-view-id") || strings.Contains(body, "hx-post") {
		t.Error("static page must not reference a live view")
	}
	if !strings.Contains(body, `href="#about"`) {
		t.Error("static nav should use anchors")
	}
	if strings.Contains(body, "opacity: 0") {
		t.Error("static page should reveal every section")
	}
	if !strings.Contains(body, `<details class="mobile-menu-static">`) {
		t.Error("static page needs a narrow-screen menu")
	}
	for _, id := range section.All() {
		link := `class="mobile-menu-button" data-nav-item="` + string(id) + `" href="#` + string(id) + `"`
		if !strings.Contains(body, link) {
			t.Errorf("narrow-screen menu missing %s", id)
		}
	}
	if s.views.len() != 0 {
		t.Error("static render must not mount a view")
	}
}

func TestExportSite(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	if err := s.ExportSite(dir); err != nil {
		t.Fatalf("ExportSite: %v", err)
	}
	for _, name := range []string{"index.html", "static/site.css", "static/scrollspy.js"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
