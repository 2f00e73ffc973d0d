// Package web serves the public site and the admin panel.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify/internal/auth"
	"roomify/internal/content"
	"roomify/internal/events"
	"roomify/internal/gotrue"
	"roomify/internal/logging"
	"roomify/internal/store"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Store   *store.Store
	Fetcher *content.Fetcher
	Bus     *events.Bus
	// AuthClient is nil when no Supabase project is configured.
	AuthClient *gotrue.Client
	// Admin is nil when the administrator shortcut is disabled.
	Admin *auth.Credentials

	SessionSecret []byte
	SecureCookies bool
	ViewsGlob     string
	Log           *zap.Logger
}

type server struct {
	Deps
}

type ViewData map[string]any

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Bus == nil {
		d.Bus = events.NewBus()
	}
	s := &server{Deps: d}

	r := gin.New()
	r.Use(logging.Middleware(d.Log), gin.Recovery())

	cookies := cookie.NewStore(d.SessionSecret)
	cookies.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, cookies))

	r.SetFuncMap(template.FuncMap{
		"price": func(p float64) string { return fmt.Sprintf("%.2f", p) },
		"stars": func(n int) []int { return make([]int, max(0, min(n, 5))) },
		"add":   func(a, b int) int { return a + b },
	})
	r.LoadHTMLGlob(d.ViewsGlob)

	r.GET("/health", s.health)

	// public site
	r.GET("/", s.landing)
	r.GET("/products", s.products)
	r.POST("/newsletter", s.newsletter)
	r.GET("/api/products", s.apiProducts)

	// auth
	authed := r.Group("/", s.withGate())
	authed.GET("/login", s.loginForm)
	authed.POST("/login", s.login)
	authed.POST("/logout", s.logout)

	// admin panel
	admin := r.Group("/admin", s.withGate(), requireUser())
	admin.GET("", s.adminDashboard)
	admin.POST("/content", s.saveContent)
	admin.GET("/products/new", s.newProductForm)
	admin.POST("/products", s.createProduct)
	admin.GET("/products/:id/edit", s.editProductForm)
	admin.POST("/products/:id", s.updateProduct)
	admin.GET("/products/:id/delete", s.confirmDeleteProduct)
	admin.POST("/products/:id/delete", s.deleteProduct)

	return r
}

// withUser adds the toasts queued for this browser and the signed-in user.
func withUser(c *gin.Context, data ViewData) ViewData {
	if data == nil {
		data = ViewData{}
	}
	data["Toasts"] = takeToasts(sessions.Default(c))
	if g := gateFrom(c); g != nil {
		if u := g.User(); u != nil {
			data["User"] = u
		}
	}
	return data
}

func toast(c *gin.Context, t Toast) {
	addToast(sessions.Default(c), t)
}

func toastError(c *gin.Context, err error) {
	toast(c, Toast{Title: "Error", Description: err.Error(), Destructive: true})
}

func (s *server) health(c *gin.Context) {
	if err := s.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
