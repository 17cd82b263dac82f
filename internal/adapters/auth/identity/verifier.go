package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"compliance-calendar/internal/platform/httpclient"
	"compliance-calendar/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity client not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("identity unauthorized")
)

// Verifier implementa auth.AuthVerifier contra el servicio de identidad que
// emite los tokens de la plataforma. El middleware decide qué hacer con un
// Verify fallido; acá solo se normaliza la respuesta.
type Verifier struct {
	client *httpclient.Client
	apiKey string
}

func NewVerifier(client *httpclient.Client, apiKey string) *Verifier {
	return &Verifier{
		client: client,
		apiKey: strings.TrimSpace(apiKey),
	}
}

const verifyPath = "/v1/tokens/verify"

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if v.apiKey != "" {
		headers["X-Api-Key"] = v.apiKey
	}

	var out struct {
		UserID       string   `json:"user_id"`
		OrgID        string   `json:"org_id"`
		Role         string   `json:"role"`
		AllLocations bool     `json:"all_locations"`
		Locations    []string `json:"locations"`
	}
	err := v.client.DoJSON(ctx, "POST", verifyPath, headers, map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == 401 || httpErr.StatusCode == 403) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("identity verify failed: %w", err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("identity response missing user_id")
	}

	return auth.Claims{
		UserID:       out.UserID,
		OrgID:        strings.TrimSpace(out.OrgID),
		Role:         strings.TrimSpace(out.Role),
		AllLocations: out.AllLocations,
		Locations:    out.Locations,
	}, nil
}
