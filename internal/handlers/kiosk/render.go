package kiosk

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type pages struct {
	home    *template.Template
	result  *template.Template
	failure *template.Template
}

func loadPages() (*pages, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	}

	home, err := parse("home.html")
	if err != nil {
		return nil, err
	}

	result, err := parse("result.html")
	if err != nil {
		return nil, err
	}

	failure, err := parse("failure.html")
	if err != nil {
		return nil, err
	}

	return &pages{home: home, result: result, failure: failure}, nil
}

type homePage struct {
	Names        []string
	LockedAs     string
	Remaining    int
	Participants int
}

type resultPage struct {
	Title     string
	Message   string
	Drawer    string
	Recipient string
}

type failurePage struct {
	Title   string
	Message string
}

// render executes a page into a buffer so a template error never leaves a
// half written response.
func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.WithError(err).Error("Failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	securityHeaders(w)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, status int, title, message string) {
	s.render(w, status, s.pages.failure, failurePage{Title: title, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).Error("Failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	securityHeaders(w)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
