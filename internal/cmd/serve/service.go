// Package serve provides the serve command, an HTTP API around the macro
// expander.
package serve

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

// API routes.
const (
	RenderURL     = "/api/v1/render"
	ImageParseURL = "/api/v1/image/parse"
	MacrosURL     = "/api/v1/macros"
	HealthURL     = "/healthz"
)

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service serves the render API.
type Service struct {
	env    *macro.Env
	health Pinger
	server *http.Server
}

var registerTagNames sync.Once

// NewService returns a Service listening on addr and rendering against env.
// health may be nil.
func NewService(addr string, env *macro.Env, health Pinger) *Service {
	registerTagNames.Do(useJSONFieldNames)

	service := &Service{
		env:    env,
		health: health,
	}

	server := &http.Server{
		Addr: addr,
	}

	// caps how long a client can take to send just the headers
	server.ReadHeaderTimeout = 5 * time.Second
	server.ReadTimeout = 10 * time.Second
	server.WriteTimeout = 15 * time.Second
	server.IdleTimeout = 60 * time.Second

	service.SetupRouter(server)

	service.server = server

	return service
}

// SetupRouter installs the HTTP routes on server.
func (service *Service) SetupRouter(server *http.Server) {
	router := gin.New()

	router.Use(gin.Recovery(), requestLogger())

	router.GET(HealthURL, service.healthz)

	router.POST(RenderURL, service.render)
	router.POST(ImageParseURL, service.parseImage)
	router.GET(MacrosURL, service.listMacros)

	server.Handler = router
}

// Handler returns the service's HTTP handler.
func (service *Service) Handler() http.Handler {
	return service.server.Handler
}

// Addr returns the listen address.
func (service *Service) Addr() string {
	return service.server.Addr
}

// Start runs the HTTP server.
func (service *Service) Start() error {
	return service.server.ListenAndServe()
}

// Shutdown stops the server, waiting for active requests until ctx is done.
func (service *Service) Shutdown(ctx context.Context) error {
	return service.server.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		event := log.Info()
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// useJSONFieldNames makes validation errors name fields by their json tag.
func useJSONFieldNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}
