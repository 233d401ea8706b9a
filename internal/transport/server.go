// Package transport exposes the services over HTTP on a goa muxer.
package transport

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"talentdesk/internal/config"
	"talentdesk/internal/metrics"
	"talentdesk/internal/services"
)

// Services bundles the handlers' dependencies
type Services struct {
	Contact *services.ContactService
	Lookup  *services.LookupService
	Auth    *services.AuthService
	Health  *services.HealthService
}

// Server routes HTTP requests to the services
type Server struct {
	cfg *config.Config
	svc Services
	mux goahttp.Muxer
}

// handlerFunc is an endpoint that reports failures by returning them
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// New mounts every route on a fresh muxer
func New(cfg *config.Config, svc Services) *Server {
	s := &Server{cfg: cfg, svc: svc, mux: goahttp.NewMuxer()}

	log.Println("[HTTP] Mounting HTTP handlers...")
	s.handle("GET", "/health", s.health)
	s.mux.Handle("GET", "/metrics", promhttp.Handler().ServeHTTP)

	s.handle("POST", "/contactinquiry", s.submitInquiry)
	s.handle("GET", "/contactinquiry", s.listInquiries)
	s.handle("GET", "/contactinquiry/{id}", s.getInquiry)
	s.handle("DELETE", "/contactinquiry/{id}", s.deleteInquiry)
	s.handle("POST", "/contactinquiry/{id}/claim", s.claimInquiry)
	s.handle("PUT", "/contactinquiry/{id}/change-status", s.changeInquiryStatus)
	s.handle("GET", "/contactinquiry/{id}/available-status-transitions", s.availableTransitions)
	s.handle("GET", "/contactinquiry/{id}/history", s.inquiryHistory)

	s.handle("GET", "/api/v1/lookups/{kind}", s.listLookups)
	s.handle("POST", "/api/v1/lookups/{kind}", s.createLookup)
	s.handle("GET", "/api/v1/lookups/{kind}/{id}", s.getLookup)
	s.handle("PUT", "/api/v1/lookups/{kind}/{id}", s.updateLookup)
	s.handle("DELETE", "/api/v1/lookups/{kind}/{id}", s.deleteLookup)

	s.handle("POST", "/api/v1/auth/login", s.login)
	s.handle("GET", "/api/v1/auth/me", s.me)
	s.handle("GET", "/api/v1/auth/users", s.listUsers)
	s.handle("POST", "/api/v1/auth/users", s.createUser)
	s.handle("GET", "/api/v1/auth/users/{id}", s.getUser)
	s.handle("PUT", "/api/v1/auth/users/{id}", s.updateUser)
	s.handle("DELETE", "/api/v1/auth/users/{id}", s.deleteUser)
	return s
}

func (s *Server) handle(method, pattern string, h handlerFunc) {
	s.mux.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(r.Context(), w, err)
		}
	})
}

// Handler returns the muxer wrapped in the middleware chain:
// security headers -> CORS -> logging -> metrics -> request id -> mux
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.PopulateRequestContext()(h)
	h = middleware.RequestID(middleware.UseXRequestIDHeaderOption(true))(h)
	h = metrics.PrometheusMiddleware(h)
	h = requestLogging(h)
	h = cors(h, s.cfg)
	return securityHeaders(h, s.cfg)
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}
