package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	apidoc "github.com/shortlyhq/shortly/api"
	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// LinkService defines the interface for the core link shortening business logic.
type LinkService interface {
	// Shorten creates a link for the original URL, either under the
	// requested custom short id or a generated one.
	Shorten(ctx context.Context, input service.ShortenInput) (*entity.Link, error)

	// Resolve translates a short id plus an optional password into the
	// link, counting the successful resolution.
	Resolve(ctx context.Context, shortID, password string) (*entity.Link, error)

	// Info retrieves the link's metadata without counting a resolution.
	Info(ctx context.Context, shortID string) (*entity.Link, error)

	// ListByOwner returns the user's links ordered newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Link, error)

	// Delete removes the link if it belongs to the given owner.
	Delete(ctx context.Context, ownerID int64, shortID string) error
}

// IdentityService resolves bearer credentials to local user records.
type IdentityService interface {
	Authenticate(ctx context.Context, authorization string) (*entity.User, error)
}

// getValidate initializes a new validator instance for validating incoming request payloads.
// It customizes tag name extraction from struct fields to match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
func NewRouter(logger *httplog.Logger, baseURL string, linkSvc LinkService, idSvc IdentityService) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Get("/health", handleHealth)
		r.Get("/url/{shortID}", handleLinkInfo(linkSvc, baseURL))
		r.Post("/redirect/{shortID}", handleRedirect(linkSvc))

		r.Group(func(r chi.Router) {
			r.Use(requireUser(idSvc))

			r.Post("/shorten", handleShorten(linkSvc, validate, baseURL))
			r.Get("/dashboard/urls", handleDashboardLinks(linkSvc, baseURL))
			r.Delete("/urls/{shortID}", handleDeleteLink(linkSvc))
		})
	})

	r.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(apidoc.OpenAPISpec)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/openapi.json"),
	))

	return r
}
