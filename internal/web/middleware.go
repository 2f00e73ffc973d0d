package web

import (
	"net/http"

	"filippo.io/csrf/gorilla"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify/internal/auth"
)

const gateKey = "authGate"

// withGate resolves the current user for the request's browser session.
func (s *server) withGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		var provider auth.Provider
		if s.AuthClient != nil {
			provider = s.AuthClient.Session(cookieTokens{sess: sess})
		}
		g := auth.NewGate(cookieFlag{sess: sess}, provider, s.Admin, s.Log)
		if err := g.Init(c.Request.Context()); err != nil {
			s.Log.Warn("resolving session", zap.Error(err))
		}
		defer g.Close()

		c.Set(gateKey, g)
		c.Next()
	}
}

func gateFrom(c *gin.Context) *auth.Gate {
	v, ok := c.Get(gateKey)
	if !ok {
		return nil
	}
	g, _ := v.(*auth.Gate)
	return g
}

// requireUser sends anonymous visitors to the login page.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		g := gateFrom(c)
		if g == nil || g.User() == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Protect rejects cross-origin state-changing requests before they reach h.
func Protect(h http.Handler, key []byte, log *zap.Logger, trustedOrigins ...string) http.Handler {
	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := "unknown"
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			log.Warn("csrf check failed",
				zap.String("reason", reason),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("origin", r.Header.Get("Origin")),
			)
			http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
		})),
	}
	if len(trustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trustedOrigins))
	}
	return csrf.Protect(key, opts...)(h)
}
