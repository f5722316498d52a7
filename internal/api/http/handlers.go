package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/internal/service"
	"github.com/shortlyhq/shortly/pkg/response"
)

// handleHealth handles liveness probes to ensure the server is running.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Running: true,
		At:      time.Now(),
	})
}

// handleShorten handles POST requests to create a shortened URL.
//
// The request must contain a valid original URL and may carry a custom
// short id, an expiry in days and a password. The handler validates the
// input, calls the link service and returns the created link.
func handleShorten(svc LinkService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShorten"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		input := service.ShortenInput{
			OriginalURL:   req.OriginalURL,
			CustomShortID: req.CustomShortID,
			ExpiresInDays: req.ExpiresIn,
			Password:      req.Password,
		}
		if user, ok := userFromContext(r.Context()); ok {
			input.OwnerID = &user.ID
		}

		link, err := svc.Shorten(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, entity.ErrShortIDExists):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("This custom URL is already in use."))
			case errors.Is(err, entity.ErrOriginalURLRequired):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Original URL is required."))
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toLinkResponse(link, baseURL))
	}
}

// handleLinkInfo handles GET requests for public link metadata.
//
// The lookup never counts as a resolution: repeated calls leave the click
// counter untouched.
func handleLinkInfo(svc LinkService, baseURL string) http.HandlerFunc {
	const op = "api.http.handleLinkInfo"

	return func(w http.ResponseWriter, r *http.Request) {
		shortID := chi.URLParam(r, "shortID")

		link, err := svc.Info(r.Context(), shortID)
		if err != nil {
			if errors.Is(err, entity.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toLinkResponse(link, baseURL))
	}
}

// handleRedirect handles POST requests to resolve a short id into the
// original URL.
//
// The body may carry a password for protected links and may be omitted
// entirely. Domain failures map to 404 (unknown), 410 (expired) and 401
// with a discriminating flag (password needed or wrong).
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		var req redirectRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		shortID := chi.URLParam(r, "shortID")

		link, err := svc.Resolve(r.Context(), shortID, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, entity.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, entity.ErrLinkExpired):
				render.Status(r, http.StatusGone)
				render.JSON(w, r, response.ErrorResponse("This link has expired."))
			case errors.Is(err, entity.ErrPasswordRequired):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.PasswordGateResponse("Password required."))
			case errors.Is(err, entity.ErrInvalidPassword):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.PasswordGateResponse("Invalid password."))
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, redirectResponse{OriginalURL: link.OriginalURL})
	}
}

// handleDashboardLinks handles GET requests for the authenticated user's
// links, ordered newest first.
func handleDashboardLinks(svc LinkService, baseURL string) http.HandlerFunc {
	const op = "api.http.handleDashboardLinks"

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthenticatedResponse)
			return
		}

		links, err := svc.ListByOwner(r.Context(), user.ID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		data := make([]linkResponse, 0, len(links))
		for i := range links {
			data = append(data, toLinkResponse(&links[i], baseURL))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, data)
	}
}

// handleDeleteLink handles DELETE requests to remove one of the
// authenticated user's links.
func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthenticatedResponse)
			return
		}

		shortID := chi.URLParam(r, "shortID")

		if err := svc.Delete(r.Context(), user.ID, shortID); err != nil {
			switch {
			case errors.Is(err, entity.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, entity.ErrNotLinkOwner):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ForbiddenResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.NoContent(w, r)
	}
}
