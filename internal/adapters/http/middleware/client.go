package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"lomba17/internal/domain/admin"
)

// ClientCookieName holds the signed browser client id.
const ClientCookieName = "lomba17_client"

const clientCookieMaxAge = 365 * 24 * 60 * 60

// Client returns middleware that identifies the browser by a signed cookie
// and stores the id in the context. A missing or tampered cookie gets a
// fresh id. hashKey signs the cookie; it must be at least 32 bytes.
func Client(hashKey []byte, secure bool) func(http.Handler) http.Handler {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(clientCookieMaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			id := readClientID(codec, r)
			if id == "" {
				id = uuid.New().String()
				encoded, err := codec.Encode(ClientCookieName, id)
				if err != nil {
					slog.Error("client_cookie_encode_failed", "error", err)
				} else {
					http.SetCookie(w, &http.Cookie{
						Name:     ClientCookieName,
						Value:    encoded,
						Path:     "/",
						MaxAge:   clientCookieMaxAge,
						HttpOnly: true,
						Secure:   secure,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
			next.ServeHTTP(w, r.WithContext(admin.ContextWithClient(r.Context(), id)))
		})
	}
}

func readClientID(codec *securecookie.SecureCookie, r *http.Request) string {
	c, err := r.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	var id string
	if err := codec.Decode(ClientCookieName, c.Value, &id); err != nil {
		slog.Debug("client_cookie_rejected", "error", err)
		return ""
	}
	return id
}
