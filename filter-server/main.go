package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/handlers"
	"github.com/namsral/flag"
	opentracing "github.com/opentracing/opentracing-go"
	zipkin "github.com/openzipkin/zipkin-go-opentracing"
	"github.com/sirupsen/logrus"
)

func main() {

	var (
		cwd        string
		zipkinURL  string
		verbose    bool
		listenAddr = fmt.Sprintf(":%s", os.Getenv("PORT"))
		logger     = logrus.New()
	)

	flag.StringVar(&cwd, "cwd", ".", "working directory for requests naming none")
	flag.StringVar(&zipkinURL, "zipkin", "", "zipkin span collector, e.g. http://localhost:9411/api/v1/spans")
	flag.BoolVar(&verbose, "v", false, "log every classification")
	flag.Parse()

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cwd, err := filepath.Abs(cwd)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Using working directory: %s", cwd)

	if zipkinURL != "" {
		collector, err := zipkin.NewHTTPCollector(zipkinURL)
		if err != nil {
			logger.Fatal(err)
		}
		defer collector.Close()

		tracer, err := zipkin.NewTracer(
			zipkin.NewRecorder(collector, true, listenAddr, "go-filter-server"),
		)
		if err != nil {
			logger.Fatal(err)
		}
		opentracing.SetGlobalTracer(tracer)
	}

	var rMux = newRouter(filterServer{cwd: cwd, logger: logger})

	s := &http.Server{
		Addr:           listenAddr,
		Handler:        handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, rMux)),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logger.Infof("Listening on %s", listenAddr)
	logger.Fatal(s.ListenAndServe())
}
