package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kalambet/pathcraft/internal/advisor"
	"github.com/kalambet/pathcraft/internal/career"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

// --- helpers ---

type stubAdvisor struct {
	mu      sync.Mutex
	recs    career.Recommendations
	err     error
	calls   int
	entered chan struct{} // closed on the first call when non-nil
	block   chan struct{} // when non-nil, Recommend waits for it to close
}

func (s *stubAdvisor) Recommend(ctx context.Context, p career.Profile) (career.Recommendations, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	return s.recs, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type webFixture struct {
	srv     *httptest.Server
	ctrl    *dashboard.Controller
	alerts  *Alerts
	metrics *Metrics
}

func newWebFixture(t *testing.T, a advisor.Advisor) *webFixture {
	t.Helper()
	alerts := NewAlerts()
	metrics := NewMetrics()
	ctrl := dashboard.New(a, dashboard.WithNotifier(alerts), dashboard.WithLogger(quietLogger()))
	srv := httptest.NewServer(NewWebHandler(WebDeps{Controller: ctrl, Alerts: alerts, Metrics: metrics}))
	t.Cleanup(srv.Close)
	return &webFixture{srv: srv, ctrl: ctrl, alerts: alerts, metrics: metrics}
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func fillController(t *testing.T, c *dashboard.Controller) {
	t.Helper()
	for k, v := range fullProfileArgs() {
		if err := c.SetField(k, v.(string)); err != nil {
			t.Fatalf("SetField(%q): %v", k, err)
		}
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}

func decodeErrorType(t *testing.T, body string) string {
	t.Helper()
	var e struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("decoding error body %q: %v", body, err)
	}
	return e.Error.Type
}

// --- tests ---

func TestHealthEndpoint(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})

	resp, err := http.Get(f.srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestIndex_InitialPage(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})

	resp, err := http.Get(f.srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body := readBody(t, resp)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		"Current Role",
		"Preferred Language",
		"Get AI Recommendations",
		"Fill out the Career Analysis form to get your personalized plan!",
		"Success Stories",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `action="/logout"`) {
		t.Error("logout control should be hidden when not logged in")
	}
}

func TestFormSubmit_Success(t *testing.T) {
	stub := &stubAdvisor{recs: career.Recommendations{
		Courses: []career.Resource{{Name: "X", Platform: "Y", Link: "https://example.com/x"}},
	}}
	f := newWebFixture(t, stub)

	form := url.Values{}
	for k, v := range fullProfileArgs() {
		form.Set(k, v.(string))
	}
	resp, err := noRedirect().PostForm(f.srv.URL+"/form", form)
	if err != nil {
		t.Fatalf("POST /form: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/#results-section" {
		t.Errorf("Location = %q, want /#results-section", loc)
	}

	v := f.ctrl.View()
	if v.Profile.Role != "Software Developer" {
		t.Errorf("Role = %q", v.Profile.Role)
	}
	if len(v.Recommendations.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(v.Recommendations.Courses))
	}

	page := readBody(t, mustGet(t, f.srv.URL+"/"))
	if !strings.Contains(page, "Recommended Courses") || !strings.Contains(page, ">X<") {
		t.Error("page does not render the recommended course")
	}
	if strings.Contains(page, "Fill out the Career Analysis form") {
		t.Error("placeholder shown alongside recommendations")
	}
	if got := testutil.ToFloat64(f.metrics.submissions.WithLabelValues(outcomeSuccess)); got != 1 {
		t.Errorf("success submissions = %v, want 1", got)
	}
}

func TestFormSubmit_MissingFieldsShowsBanner(t *testing.T) {
	stub := &stubAdvisor{}
	f := newWebFixture(t, stub)

	form := url.Values{"role": {"Designer"}}
	resp, err := noRedirect().PostForm(f.srv.URL+"/form", form)
	if err != nil {
		t.Fatalf("POST /form: %v", err)
	}
	resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "/#form-section" {
		t.Errorf("Location = %q, want /#form-section", loc)
	}
	if stub.calls != 0 {
		t.Errorf("advisor called %d times, want 0", stub.calls)
	}

	page := readBody(t, mustGet(t, f.srv.URL+"/"))
	if !strings.Contains(page, "Please fill out all fields: skills, skill_gaps") {
		t.Error("expected banner naming the missing fields")
	}

	// The banner is shown once.
	page = readBody(t, mustGet(t, f.srv.URL+"/"))
	if strings.Contains(page, `role="alert"`) {
		t.Error("banner should be cleared after one render")
	}
}

func TestFormSubmit_AdvisorFailureShowsBanner(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{err: advisor.ErrRequestFailed})

	form := url.Values{}
	for k, v := range fullProfileArgs() {
		form.Set(k, v.(string))
	}
	resp, err := noRedirect().PostForm(f.srv.URL+"/form", form)
	if err != nil {
		t.Fatalf("POST /form: %v", err)
	}
	resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "/#form-section" {
		t.Errorf("Location = %q, want /#form-section", loc)
	}
	page := readBody(t, mustGet(t, f.srv.URL+"/"))
	if !strings.Contains(page, dashboard.FailureMessage) {
		t.Error("expected failure banner")
	}
}

func mustGet(t *testing.T, u string) *http.Response {
	t.Helper()
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	return resp
}

func TestAPISubmit_Success(t *testing.T) {
	stub := &stubAdvisor{recs: career.Recommendations{
		Roadmap: []career.RoadmapStep{{Step: "1", Description: "Learn AWS"}},
	}}
	f := newWebFixture(t, stub)
	fillController(t, f.ctrl)

	resp, err := http.Post(f.srv.URL+"/api/submit", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/submit: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var recs career.Recommendations
	if err := json.Unmarshal([]byte(body), &recs); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(recs.Roadmap) != 1 || recs.Roadmap[0].Description != "Learn AWS" {
		t.Errorf("roadmap = %+v", recs.Roadmap)
	}
	if recs.Courses == nil {
		t.Error("missing sections should encode as empty lists")
	}
}

func TestAPISubmit_MissingFields(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})

	resp, err := http.Post(f.srv.URL+"/api/submit", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/submit: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if typ := decodeErrorType(t, body); typ != "invalid_request_error" {
		t.Errorf("error type = %q", typ)
	}
	if got := testutil.ToFloat64(f.metrics.submissions.WithLabelValues(outcomeRejected)); got != 1 {
		t.Errorf("incomplete submissions = %v, want 1", got)
	}
}

func TestAPISubmit_AdvisorFailure(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{err: advisor.ErrRequestFailed})
	fillController(t, f.ctrl)

	resp, err := http.Post(f.srv.URL+"/api/submit", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/submit: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(body, dashboard.FailureMessage) {
		t.Errorf("body = %s", body)
	}
}

func TestAPISubmit_ConflictWhileLoading(t *testing.T) {
	stub := &stubAdvisor{block: make(chan struct{}), entered: make(chan struct{})}
	f := newWebFixture(t, stub)
	fillController(t, f.ctrl)

	done := make(chan int, 1)
	go func() {
		resp, err := http.Post(f.srv.URL+"/api/submit", "application/json", nil)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	<-stub.entered

	resp, err := http.Post(f.srv.URL+"/api/submit", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/submit: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if typ := decodeErrorType(t, body); typ != "conflict" {
		t.Errorf("error type = %q", typ)
	}

	close(stub.block)
	if code := <-done; code != http.StatusOK {
		t.Errorf("first submit status = %d, want 200", code)
	}
	if stub.calls != 1 {
		t.Errorf("advisor called %d times, want 1", stub.calls)
	}
}

func TestAPIPatchProfile(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})

	req, _ := http.NewRequest(http.MethodPatch, f.srv.URL+"/api/profile", strings.NewReader(`{"skills":"Go"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH /api/profile: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var p career.Profile
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if p.Skills != "Go" || p.Role != "" {
		t.Errorf("profile = %+v", p)
	}
}

func TestAPIPatchProfile_UnknownKeyAppliesNothing(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})

	req, _ := http.NewRequest(http.MethodPatch, f.srv.URL+"/api/profile", strings.NewReader(`{"skills":"Go","salary":"1"}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH /api/profile: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := f.ctrl.View().Profile.Skills; got != "" {
		t.Errorf("Skills = %q, want unchanged", got)
	}
}

func TestAPIGetState(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})
	f.ctrl.ToggleTheme()

	resp := mustGet(t, f.srv.URL+"/api/state")
	var v dashboard.View
	if err := json.Unmarshal([]byte(readBody(t, resp)), &v); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !v.DarkMode {
		t.Error("expected dark mode")
	}
	if v.ActiveSection != dashboard.SectionForm {
		t.Errorf("ActiveSection = %q", v.ActiveSection)
	}
}

func TestSections(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})
	f.ctrl.OpenSidebar()

	resp, err := noRedirect().Post(f.srv.URL+"/sections/testimonials-section", "", nil)
	if err != nil {
		t.Fatalf("POST section: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/#testimonials-section" {
		t.Errorf("Location = %q", loc)
	}
	v := f.ctrl.View()
	if v.ActiveSection != dashboard.SectionTestimonials || v.SidebarOpen {
		t.Errorf("view = %+v", v)
	}

	resp, err = noRedirect().Post(f.srv.URL+"/sections/pricing", "", nil)
	if err != nil {
		t.Fatalf("POST section: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestToggles(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})
	c := noRedirect()

	for _, path := range []string{"/theme", "/sidebar/open"} {
		resp, err := c.Post(f.srv.URL+path, "", nil)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s status = %d, want 303", path, resp.StatusCode)
		}
	}

	v := f.ctrl.View()
	if !v.DarkMode || !v.SidebarOpen {
		t.Errorf("view = %+v", v)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newWebFixture(t, &stubAdvisor{})
	f.metrics.ObserveSubmission(nil)

	body := readBody(t, mustGet(t, f.srv.URL+"/metrics"))
	if !strings.Contains(body, "pathcraft_submissions_total") {
		t.Errorf("metrics output missing submissions counter:\n%s", body)
	}
}

func TestInstrumentAdvisor(t *testing.T) {
	m := NewMetrics()
	a := m.InstrumentAdvisor(&stubAdvisor{err: advisor.ErrRequestFailed})

	if _, err := a.Recommend(context.Background(), career.Profile{}); err == nil {
		t.Fatal("expected error to pass through")
	}
	if n := testutil.CollectAndCount(m.advisorTime); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestObserveSubmission_NilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission(nil) // must not panic
}
