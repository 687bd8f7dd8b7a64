// Package ui serves a small HTTP preview app: paste CSS text, see the
// rules the parser built from it (or the syntax error it hit), and
// browse any stylesheets already indexed by a codebase.Codebase.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/dhamidi/cssbox/css"
	"github.com/dhamidi/cssbox/css/codebase"
	"github.com/dhamidi/cssbox/css/printer"
)

//go:embed static templates
var embeddedFS embed.FS

type Server struct {
	codebase   *codebase.Codebase
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
}

// NewServer builds a preview server. If rootDir is non-empty, its
// stylesheets are indexed up front and browsable under /files.
func NewServer(rootDir string) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"lines": func(s string) []string {
			return strings.Split(s, "\n")
		},
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var cb *codebase.Codebase
	if rootDir != "" {
		cb = codebase.New(rootDir)
		if err := cb.ScanAll(); err != nil {
			return nil, fmt.Errorf("scan %s: %w", rootDir, err)
		}
	}

	s := &Server{
		codebase:   cb,
		staticFS:   staticFS,
		templateFS: templateFS,
		funcMap:    funcMap,
		mux:        http.NewServeMux(),
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /files", s.handleFiles)
	s.mux.HandleFunc("GET /files/{path...}", s.handleFile)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", struct{ Source string }{})
}

// ParseResult is what /parse renders back: the pretty-printed rules
// on success, or the syntax error's message on failure.
type ParseResult struct {
	Source   string
	Printed  string
	Dumped   string
	ErrorMsg string
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}
	source := r.FormValue("source")

	result := ParseResult{Source: source}
	rule, err := css.ParseCSS(nil, []byte(source), "<pasted>")
	if err != nil {
		result.ErrorMsg = err.Error()
	} else {
		result.Printed = printer.Sprint(rule)
		var buf strings.Builder
		_ = printer.Dump(&buf, rule)
		result.Dumped = buf.String()
	}

	s.render(w, "result.html", result)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	var paths []string
	if s.codebase != nil {
		paths = s.codebase.Paths()
	}
	s.render(w, "files.html", struct{ Paths []string }{Paths: paths})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if s.codebase == nil {
		http.NotFound(w, r)
		return
	}
	file := s.codebase.GetFile(path)
	if file == nil {
		http.NotFound(w, r)
		return
	}

	result := ParseResult{Source: string(file.Content)}
	if file.ParseErr != nil {
		result.ErrorMsg = file.ParseErr.Error()
	} else {
		result.Printed = printer.Sprint(file.Rules)
		var buf strings.Builder
		_ = printer.Dump(&buf, file.Rules)
		result.Dumped = buf.String()
	}
	s.render(w, "result.html", result)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS lets templates and static assets be edited on disk during
// development without a rebuild, falling back to the embedded copy
// (e.g. when the binary runs somewhere the source tree isn't present).
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	if f, err := o.primary.Open(name); err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}
	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
