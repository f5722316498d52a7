package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
)

// shortenRequest represents the request payload for creating a shortened URL.
// The password length cap matches the bcrypt input limit.
type shortenRequest struct {
	OriginalURL   string `json:"originalUrl" validate:"required,url"`
	CustomShortID string `json:"customShortId" validate:"omitempty,min=4,max=32,alphanum"`
	ExpiresIn     int    `json:"expiresIn" validate:"omitempty,gt=0,lte=365"`
	Password      string `json:"password" validate:"omitempty,min=4,max=72"`
}

// redirectRequest represents the request payload for resolving a short id.
// The body may be omitted entirely for unprotected links.
type redirectRequest struct {
	Password string `json:"password"`
}

// linkResponse represents the response payload for a link operation.
type linkResponse struct {
	ShortID             string    `json:"shortId"`
	OriginalURL         string    `json:"originalUrl"`
	ShortURL            string    `json:"shortUrl"`
	Clicks              int64     `json:"clicks"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
	CreatedAt           time.Time `json:"createdAt"`
	ExpiresAt           time.Time `json:"expiresAt"`
}

// toLinkResponse converts a link entity from the business layer into a response payload.
func toLinkResponse(link *entity.Link, baseURL string) linkResponse {
	return linkResponse{
		ShortID:             link.ShortID,
		OriginalURL:         link.OriginalURL,
		ShortURL:            fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), link.ShortID),
		Clicks:              link.Clicks,
		IsPasswordProtected: link.IsPasswordProtected,
		CreatedAt:           link.CreatedAt,
		ExpiresAt:           link.ExpiresAt,
	}
}

// redirectResponse carries the resolved original URL.
type redirectResponse struct {
	OriginalURL string `json:"originalUrl"`
}

// healthResponse reports process liveness.
type healthResponse struct {
	Running bool      `json:"running"`
	At      time.Time `json:"at"`
}
