package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/pathcraft/internal/career"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

const maxFormBodySize = 64 << 10 // 64KB

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

// WebDeps holds what the dashboard handlers need.
type WebDeps struct {
	Controller *dashboard.Controller
	Alerts     *Alerts  // optional; failure banners are skipped when nil
	Metrics    *Metrics // optional; /metrics is not mounted when nil
}

// NewWebHandler returns the dashboard: the HTML page, its form actions,
// and a JSON API over the same controller.
func NewWebHandler(deps WebDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Get("/", handleIndex(deps))
	r.Post("/form", handleForm(deps))
	r.Post("/theme", handleToggle(deps.Controller.ToggleTheme))
	r.Post("/sidebar/open", handleToggle(deps.Controller.OpenSidebar))
	r.Post("/sidebar/close", handleToggle(deps.Controller.CloseSidebar))
	r.Post("/logout", handleToggle(deps.Controller.Logout))
	r.Post("/sections/{id}", handleScroll(deps))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleGetState(deps))
		r.Patch("/profile", handlePatchProfile(deps))
		r.Post("/submit", handleSubmit(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type fieldData struct {
	career.FieldInfo
	Value string
}

type pageData struct {
	dashboard.View
	Nav    []dashboard.NavItem
	Fields []fieldData
	Alert  string
}

func handleIndex(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := deps.Controller.View()

		data := pageData{View: v, Nav: dashboard.Navigation}
		for _, f := range career.Fields {
			val, _ := v.Profile.Get(f.Key)
			data.Fields = append(data.Fields, fieldData{FieldInfo: f, Value: val})
		}
		if deps.Alerts != nil {
			data.Alert = deps.Alerts.Pop()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			slog.Error("rendering dashboard", "error", err)
		}
	}
}

// handleForm applies every submitted field as a single edit, then submits.
func handleForm(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)
		if err := r.ParseForm(); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid form: %v", err)
			return
		}

		for _, f := range career.Fields {
			if vals, ok := r.PostForm[f.Key]; ok && len(vals) > 0 {
				if err := deps.Controller.SetField(f.Key, vals[0]); err != nil {
					httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
					return
				}
			}
		}

		_, err := deps.Controller.Submit(r.Context())
		deps.Metrics.ObserveSubmission(err)

		var missing *career.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			notify(deps, "Please fill out all fields: "+strings.Join(missing.Fields, ", "))
		case errors.Is(err, dashboard.ErrSubmitInProgress):
			notify(deps, "Your profile is still being analyzed.")
		}
		// Advisor failures were already reported through the controller's notifier.

		redirectToSection(w, r, deps.Controller.View().ActiveSection)
	}
}

func notify(deps WebDeps, msg string) {
	if deps.Alerts != nil {
		deps.Alerts.Notify(msg)
	}
}

func handleToggle(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleScroll(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := dashboard.Section(chi.URLParam(r, "id"))
		if err := deps.Controller.ScrollTo(s); err != nil {
			httpError(w, http.StatusNotFound, "not_found", "%v", err)
			return
		}
		redirectToSection(w, r, s)
	}
}

func redirectToSection(w http.ResponseWriter, r *http.Request, s dashboard.Section) {
	http.Redirect(w, r, "/#"+string(s), http.StatusSeeOther)
}

// --- JSON API ---

func handleGetState(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Controller.View())
	}
}

func handlePatchProfile(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)
		defer r.Body.Close()

		var fields map[string]string
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		// Reject the whole patch before applying any of it.
		for key := range fields {
			if _, err := (career.Profile{}).Get(key); err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
		}
		for key, value := range fields {
			if err := deps.Controller.SetField(key, value); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to set field %q: %v", key, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, deps.Controller.View().Profile)
	}
}

func handleSubmit(deps WebDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := deps.Controller.Submit(r.Context())
		deps.Metrics.ObserveSubmission(err)

		var missing *career.MissingFieldsError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, recs)
		case errors.Is(err, dashboard.ErrSubmitInProgress):
			httpError(w, http.StatusConflict, "conflict", "%v", err)
		case errors.As(err, &missing):
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "%v", err)
		default:
			httpError(w, http.StatusBadGateway, "api_error", "%s", dashboard.FailureMessage)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
