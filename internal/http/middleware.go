package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/config"
	"github.com/mauv0809/card-swap/internal/http/handlers"
	"github.com/slack-go/slack"
	"google.golang.org/api/idtoken"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), handlers.DryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// timeoutMiddleware bounds every store and notifier call made while serving the request.
func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// slackSignatureMiddleware rejects requests that are not signed with the app's
// signing secret. The body is restored so handlers can still parse the form.
func slackSignatureMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Rejected Slack request without valid signature headers", "error", err)
				http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
				return
			}

			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				log.Error("Failed to read request body", "error", err)
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			if _, err := verifier.Write(bodyBytes); err != nil {
				http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Rejected Slack request with bad signature", "error", err)
				http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenValidator checks a Google-signed ID token for the given audience.
type TokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// apiTokenMiddleware guards the JSON API with a shared bearer token. An empty
// configured token locks the API.
func apiTokenMiddleware(apiToken string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || apiToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1 {
				log.Warn("Rejected API request without valid token", "method", r.Method, "path", r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pushAuthMiddleware accepts only Pub/Sub push deliveries carrying an OIDC token
// for the configured audience, optionally minted for one service account.
func pushAuthMiddleware(push config.PushConfig, validate TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || push.Audience == "" {
				log.Warn("Rejected push without OIDC token", "path", r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			payload, err := validate(r.Context(), token, push.Audience)
			if err != nil {
				log.Warn("Rejected push with invalid OIDC token", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if push.ServiceAccount != "" {
				email, _ := payload.Claims["email"].(string)
				verified, _ := payload.Claims["email_verified"].(bool)
				if email != push.ServiceAccount || !verified {
					log.Warn("Rejected push from unexpected service account", "email", email)
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
