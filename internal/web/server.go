// Package web serves the dashboard as server-rendered HTML. It is a thin
// front: every page handler probes the backend with a client built from the
// browser's own Cookie header, so the backend session keeps working
// unchanged and this process holds no state of its own.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/config"
	"github.com/greenee/ecarbon/internal/grade"
	"github.com/greenee/ecarbon/internal/guidelines"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/report"
	"github.com/greenee/ecarbon/internal/util"
	"github.com/greenee/ecarbon/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP front of the dashboard.
type Server struct {
	cfg    config.Config
	router *mux.Router
	pages  map[string]*template.Template
}

// New builds the server and its routes.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg:   cfg,
		pages: map[string]*template.Template{},
	}
	funcs := template.FuncMap{
		"gradeHex":  grade.Hex,
		"markerHex": grade.MarkerHex,
		"medal":     grade.Medal,
	}
	for _, name := range []string{
		"index.html", "ranking.html", "stats.html",
		"user.html", "guidelines.html", "about.html",
	} {
		s.pages[name] = template.Must(
			template.New("layout.html").Funcs(funcs).
				ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/measure", s.handleMeasure).Methods(http.MethodPost)
	r.HandleFunc("/measure/report", s.handleMeasureReport).Methods(http.MethodPost)
	r.HandleFunc("/ranking", s.handleRanking).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/user", s.handleUser).Methods(http.MethodGet)
	r.HandleFunc("/guidelines", s.handleGuidelines).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	s.router = r
	return s
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Port
	log.Printf("dashboard listening on %s (backend %s)", addr, s.cfg.BaseURL)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return srv.ListenAndServe()
}

// client builds an API client bound to the browser's session cookie so the
// backend sees the same identity the browser has.
func (s *Server) client(r *http.Request) *api.Client {
	c, err := api.New(api.Config{
		BaseURL: s.cfg.BaseURL,
		Cookie:  r.Header.Get("Cookie"),
		Timeout: s.cfg.Timeout,
		Retries: s.cfg.Retries,
	})
	if err != nil {
		// The base URL was validated at startup; this cannot happen for
		// a running server.
		panic(err)
	}
	return c
}

type basePage struct {
	Active  string
	Session views.Session
	Login   string
}

func (s *Server) base(r *http.Request, active string) basePage {
	c := s.client(r)
	return basePage{
		Active:  active,
		Session: views.ProbeSession(r.Context(), c),
		Login:   c.LoginURL(),
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[name].Execute(w, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

type indexPage struct {
	basePage
	URL     string
	Result  *model.MeasurementResult
	FormErr string
	FlowErr string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", indexPage{basePage: s.base(r, "measure")})
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	page := indexPage{basePage: s.base(r, "measure"), URL: r.FormValue("url")}

	flow := views.NewMeasureFlow(s.client(r))
	if err := flow.Submit(page.URL); err != nil {
		page.FormErr = err.Error()
		s.render(w, "index.html", page)
		return
	}
	res, err := flow.Confirm(r.Context())
	if err != nil {
		page.FlowErr = err.Error()
		s.render(w, "index.html", page)
		return
	}
	page.Result = res
	s.render(w, "index.html", page)
}

// handleMeasureReport runs the same flow but answers with the standalone
// HTML report as a download.
func (s *Server) handleMeasureReport(w http.ResponseWriter, r *http.Request) {
	flow := views.NewMeasureFlow(s.client(r))
	if err := flow.Submit(r.FormValue("url")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := flow.Confirm(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ecarbon-report.html"`)
	if err := report.Write(w, report.Page{Result: res}); err != nil {
		log.Printf("report: %v", err)
	}
}

type rankingPage struct {
	basePage
	Week     string
	Category string
	View     views.RankingView
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week == "" {
		week = util.WeekMonday(time.Now())
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = string(model.CategoryUniversity)
	}
	s.render(w, "ranking.html", rankingPage{
		basePage: s.base(r, "ranking"),
		Week:     week,
		Category: category,
		View:     views.LoadRanking(r.Context(), s.client(r), week, model.PlaceCategory(category)),
	})
}

type statsPage struct {
	basePage
	Week        string
	Category    string
	View        views.StatsView
	MapsAPIKey  string
	MarkersJSON template.JS
}

type markerJSON struct {
	PlaceName string  `json:"placeName"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Color     string  `json:"color"`
	URL       string  `json:"url"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week == "" {
		week = util.WeekMonday(time.Now())
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = string(model.CategoryUniversity)
	}
	view := views.LoadStats(r.Context(), s.client(r), week, model.PlaceCategory(category))

	markers := make([]markerJSON, 0)
	for _, m := range view.Markers() {
		markers = append(markers, markerJSON{
			PlaceName: m.PlaceName,
			Lat:       m.Latitude,
			Lng:       m.Longitude,
			Color:     grade.MarkerHex(m.CarbonEmission),
			URL:       m.URL,
		})
	}
	raw, err := json.Marshal(markers)
	if err != nil {
		raw = []byte("[]")
	}

	s.render(w, "stats.html", statsPage{
		basePage:    s.base(r, "stats"),
		Week:        week,
		Category:    category,
		View:        view,
		MapsAPIKey:  s.cfg.MapsAPIKey,
		MarkersJSON: template.JS(raw),
	})
}

type userPage struct {
	basePage
	View views.UserPageView
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	page := userPage{
		basePage: s.base(r, "user"),
		View:     views.LoadUserPage(r.Context(), s.client(r)),
	}
	if page.View.AuthRequired {
		http.Redirect(w, r, page.Login, http.StatusFound)
		return
	}
	s.render(w, "user.html", page)
}

type guidelinesPage struct {
	basePage
	Items []model.GuidelineItem
}

func (s *Server) handleGuidelines(w http.ResponseWriter, r *http.Request) {
	s.render(w, "guidelines.html", guidelinesPage{
		basePage: s.base(r, "guidelines"),
		Items:    guidelines.All(),
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about.html", struct {
		basePage
		GramsPerMB float64
	}{s.base(r, "about"), model.GramsFromBytes(1024 * 1024)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.client(r).LoginURL(), http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.client(r).Logout(r.Context()); err != nil {
		log.Printf("logout: %v", err)
	}
	// Drop the forwarded session cookies on our own origin too. The
	// backend names its session cookie, so expire whatever the browser
	// sent rather than assuming a name.
	for _, c := range r.Cookies() {
		http.SetCookie(w, &http.Cookie{
			Name: c.Name, Value: "", Path: "/", MaxAge: -1,
		})
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
