package api

// registerRoutes registers all API routes. Path matching is exact and
// case-sensitive; anything the mux doesn't match falls through to the
// root handler, which answers with the JSON 404 envelope.
func (s *Server) registerRoutes() {
	s.router.HandleFunc("/hello", s.handleHello)
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/metrics", s.handleMetrics)

	// Root endpoint and 404 fallback
	s.router.HandleFunc("/", s.handleRoot)
}
