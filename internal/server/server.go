package server

import (
	"fmt"
	"log"
	"net/http"
)

// Server exposes the liveness endpoint while the bot polls Telegram.
type Server struct {
	port string
}

// New creates a new HTTP server
func New(port string) *Server {
	return &Server{port: port}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() {
	http.HandleFunc("/health", handleHealth)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.SetupRoutes()

	log.Printf("HTTP server listening on :%s", s.port)
	if err := http.ListenAndServe(":"+s.port, nil); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
