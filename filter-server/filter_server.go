package main

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	opentracing "github.com/opentracing/opentracing-go"
	"golang.org/x/xerrors"

	"github.com/retro-framework/go-filter/framework/filter"
	"github.com/retro-framework/go-filter/framework/matcher"
	"github.com/retro-framework/go-filter/framework/source"
	"github.com/retro-framework/go-filter/framework/stream"
	"github.com/retro-framework/go-filter/framework/types"
)

func newRouter(fs filterServer) *mux.Router {
	rMux := mux.NewRouter()
	rMux.Handle("/filter", fs).Methods("POST")
	rMux.HandleFunc("/healthz", healthz).Methods("GET")
	return rMux
}

type filterRequest struct {
	Cwd      string          `json:"cwd"`
	Root     string          `json:"root"`
	Patterns []string        `json:"patterns"`
	Options  matcher.Options `json:"options"`
	Paths    []string        `json:"paths"`
}

type filterResponse struct {
	Matched  []string `json:"matched"`
	Restored []string `json:"restored"`
}

type filterServer struct {
	cwd    string
	logger types.Logger
}

// ServeHTTP classifies the posted paths with one stage, matches and
// held paths are returned separately, each in input order.
func (fs filterServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {

	if req.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var ctx = req.Context()

	spnFilter, ctx := opentracing.StartSpanFromContext(ctx, "/filter")
	defer spnFilter.Finish()

	var fr filterRequest
	if err := json.NewDecoder(req.Body).Decode(&fr); err != nil {
		http.Error(w, "error decoding request body", http.StatusBadRequest)
		return
	}
	if fr.Cwd == "" {
		fr.Cwd = fs.cwd
	}
	if !filepath.IsAbs(fr.Cwd) {
		fr.Cwd = filepath.Join(fs.cwd, fr.Cwd)
	}
	spnFilter.SetTag("patterns", len(fr.Patterns))
	spnFilter.SetTag("paths", len(fr.Paths))

	stage, err := filter.New(fr.Patterns, filter.Options{
		Restore: true,
		Cwd:     fr.Cwd,
		Root:    fr.Root,
		Matcher: fr.Options,
		Logger:  fs.logger,
	})
	if err != nil {
		var ce *filter.ConfigError
		if xerrors.As(err, &ce) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	var res = filterResponse{Matched: []string{}, Restored: []string{}}

	matched, err := stream.Collect(ctx, stage.Pipe(ctx, source.Paths(ctx, fr.Cwd, "", fr.Paths...)))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	restored, err := stream.Collect(ctx, stage.Restore().Drain(ctx))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	for _, f := range matched {
		res.Matched = append(res.Matched, filepath.ToSlash(f.Path))
	}
	for _, f := range restored {
		res.Restored = append(res.Restored, filepath.ToSlash(f.Path))
	}

	w.Header().Set("Content-Type", "application/json")
	var enc = json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(res); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
