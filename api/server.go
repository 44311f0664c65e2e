package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/recently_viewed"
)

var log = logrus.WithField("component", "api")

// IHealthReporter reports whether a dependency has answered successfully at least once
type IHealthReporter interface {
	Healthy() bool
}

type Server struct {
	port            string
	defaultCurrency string
	dashboard       *dashboard.Service
	recent          *recently_viewed.Store
	provider        IHealthReporter
	upgrader        websocket.Upgrader
	server          *http.Server

	// ctx ends open websocket streams on shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func New(port, defaultCurrency string, dashboardService *dashboard.Service, recent *recently_viewed.Store, provider IHealthReporter) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		port:            port,
		defaultCurrency: defaultCurrency,
		dashboard:       dashboardService,
		recent:          recent,
		provider:        provider,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Router builds the routes of the server
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(loggingMiddleware)

	v1.HandleFunc("/markets", s.handleMarkets).Methods(http.MethodGet)
	v1.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)
	v1.HandleFunc("/currencies", s.handleCurrencies).Methods(http.MethodGet)
	v1.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}", s.handleCoinDetails).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}/history", s.handleCoinHistory).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}/exchanges", s.handleCoinExchanges).Methods(http.MethodGet)
	v1.HandleFunc("/recent", s.handleRecentList).Methods(http.MethodGet)
	v1.HandleFunc("/recent", s.handleRecentAdd).Methods(http.MethodPost)
	v1.HandleFunc("/recent", s.handleRecentClear).Methods(http.MethodDelete)

	router.HandleFunc("/ws/markets", s.handleMarketsStream)
	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Server starting at http://localhost:%s", s.port)
	log.Info("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.cancel()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}
}
