package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify/internal/catalog"
)

func (s *server) landing(c *gin.Context) {
	// a failed section renders empty, the page itself still loads
	l, _ := s.Fetcher.Landing(c.Request.Context())
	c.HTML(http.StatusOK, "index.tmpl", withUser(c, ViewData{"Landing": l}))
}

func (s *server) products(c *gin.Context) {
	all, err := s.Fetcher.Products(c.Request.Context())
	if err != nil {
		s.Log.Error("loading products", zap.Error(err))
	}
	listing := catalog.NewListing(all, c.Query("category"))
	c.HTML(http.StatusOK, "products.tmpl", withUser(c, ViewData{
		"Listing": listing,
		"All":     catalog.All,
	}))
}

type newsletterForm struct {
	Email string `form:"email" binding:"omitempty,email"`
}

// newsletter only acknowledges the sign-up; nothing is stored.
func (s *server) newsletter(c *gin.Context) {
	var f newsletterForm
	err := c.ShouldBind(&f)
	if err == nil && strings.TrimSpace(f.Email) == "" {
		c.Redirect(http.StatusSeeOther, "/#newsletter")
		return
	}
	if err != nil {
		toast(c, Toast{Title: "Invalid email", Description: "Please enter a valid email address.", Destructive: true})
		c.Redirect(http.StatusSeeOther, "/#newsletter")
		return
	}
	toast(c, Toast{
		Title:       "Welcome to the Decor Circle!",
		Description: "Check your inbox for exclusive design inspiration.",
	})
	c.Redirect(http.StatusSeeOther, "/#newsletter")
}

// apiProducts serves the catalogue as JSON, optionally filtered by category.
func (s *server) apiProducts(c *gin.Context) {
	all, err := s.Fetcher.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cat := c.Query("category"); cat != "" {
		all = catalog.FilterByCategory(all, cat)
	}
	c.JSON(http.StatusOK, all)
}
