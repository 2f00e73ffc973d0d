package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (s *server) loginForm(c *gin.Context) {
	if g := gateFrom(c); g != nil && g.User() != nil {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", withUser(c, ViewData{"Email": ""}))
}

func (s *server) login(c *gin.Context) {
	var f loginForm
	_ = c.ShouldBind(&f)
	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" || f.Password == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", withUser(c, ViewData{
			"Error": "Email and password are required",
			"Email": f.Email,
		}))
		return
	}

	g := gateFrom(c)
	if err := g.SignIn(c.Request.Context(), f.Email, f.Password); err != nil {
		c.HTML(http.StatusUnauthorized, "login.tmpl", withUser(c, ViewData{
			"Error": "Authentication Failed: " + err.Error(),
			"Email": f.Email,
		}))
		return
	}
	toast(c, Toast{Title: "Welcome back!", Description: "Redirecting to admin dashboard..."})
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *server) logout(c *gin.Context) {
	gateFrom(c).SignOut(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/")
}
