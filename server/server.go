package server

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/shopframe/go-shop-auth/authflow"
	"github.com/shopframe/go-shop-auth/internal/config"
	"github.com/shopframe/go-shop-auth/internal/metrics"
	"github.com/shopframe/go-shop-auth/provider"
	"github.com/shopframe/go-shop-auth/sessionstate"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	flow   *authflow.Service
	codec  *sessionstate.Codec
	oauth  *provider.Client

	loginTmpl         *template.Template
	enableCookiesTmpl *template.Template
	topRedirectTmpl   *template.Template
}

func New(cfg config.Config, flow *authflow.Service, codec *sessionstate.Codec, oauth *provider.Client) (*Server, error) {
	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		flow:   flow,
		codec:  codec,
		oauth:  oauth,
	}
	s.env = cfg.GetEnv()

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("[Server New] failed to register metrics: %w", err)
	}

	if err := s.initTemplates(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
