package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/starford/resource-api/internal/api/docs"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/validate"
)

// RouterConfig controls the HTTP surface.
type RouterConfig struct {
	// APIPrefix is mounted in front of /v1, e.g. "/api".
	APIPrefix   string
	CORSOrigins []string
	Logger      *slog.Logger
	Development bool
	// Metrics, if non-nil, instruments every request and serves /metrics.
	Metrics *Metrics
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter creates the root chi router with generic endpoints and the
// resource API mounted under cfg.APIPrefix.
func NewRouter(svc *resourceservice.Service, cfg RouterConfig) chi.Router {
	eh := NewErrorHandler(cfg.Logger, cfg.Development)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.AccessLog {
		r.Use(middleware.Logger)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	r.Use(eh.Recover)
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	r.NotFound(eh.NotFound)
	r.MethodNotAllowed(eh.NotFound)

	r.Get("/status", statusOK)
	r.Head("/status", statusOK)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	prefix := strings.TrimRight(cfg.APIPrefix, "/")

	docs.SwaggerInfo.BasePath = prefix
	if prefix == "" {
		docs.SwaggerInfo.BasePath = "/"
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route(prefix+"/v1", func(r chi.Router) {
		r.NotFound(eh.NotFound)
		r.MethodNotAllowed(eh.NotFound)
		mountResources(r, NewHandler(svc), eh)
	})

	return r
}

func mountResources(r chi.Router, h *Handler, eh *ErrorHandler) {
	validated := func(src validate.Sources) func(http.Handler) http.Handler {
		return validate.Middleware(eh.HandleError, src)
	}

	r.Route("/resources", func(r chi.Router) {
		r.With(validated(validate.Sources{Body: CreateResourceShape})).
			Post("/", eh.wrap(h.CreateResource))
		r.With(validated(validate.Sources{Query: ResourceListShape})).
			Get("/", eh.wrap(h.ListResources))
		r.With(validated(validate.Sources{Params: ResourceIDShape})).
			Get("/{id}", eh.wrap(h.GetResource))
		r.With(validated(validate.Sources{Body: UpdateResourceShape, Params: ResourceIDShape})).
			Put("/{id}", eh.wrap(h.UpdateResource))
		r.With(validated(validate.Sources{Params: ResourceIDShape})).
			Delete("/{id}", eh.wrap(h.DeleteResource))
	})
}

func statusOK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
