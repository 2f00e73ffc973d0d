package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify/internal/admin"
	"roomify/internal/models"
	"roomify/internal/store"
)

const (
	tabContent      = "content"
	tabProducts     = "products"
	tabTestimonials = "testimonials"
)

func (s *server) productController() *admin.ProductController {
	return admin.NewProductController(s.Store.Products, s.Bus.Publish)
}

func (s *server) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	tab := c.DefaultQuery("tab", tabContent)
	switch tab {
	case tabContent, tabProducts, tabTestimonials:
	default:
		tab = tabContent
	}

	data := ViewData{"Tab": tab}
	// the admin panel reads past the cache
	fetch := s.Fetcher.Uncached()
	var loadErr error
	headline, subtext, err := admin.LoadHero(ctx, s.Store.ContentBlocks)
	if err != nil {
		loadErr = err
	}
	products, err := fetch.Products(ctx)
	if err != nil {
		loadErr = err
	}
	testimonials, err := fetch.AllTestimonials(ctx)
	if err != nil {
		loadErr = err
	}
	if loadErr != nil {
		s.Log.Error("loading admin dashboard", zap.Error(loadErr))
		data["Error"] = loadErr.Error()
	}
	data["Headline"] = headline
	data["Subtext"] = subtext
	data["Products"] = products
	data["Testimonials"] = testimonials
	c.HTML(http.StatusOK, "admin.tmpl", withUser(c, data))
}

type heroForm struct {
	Headline string `form:"headline"`
	Subtext  string `form:"subtext"`
}

func (s *server) saveContent(c *gin.Context) {
	var f heroForm
	_ = c.ShouldBind(&f)
	ed := admin.NewHeroEditor(s.Store.ContentBlocks, s.Bus.Publish)
	if err := ed.Save(c.Request.Context(), f.Headline, f.Subtext); err != nil {
		toastError(c, err)
	} else {
		toast(c, Toast{Title: "Content Updated", Description: "Hero section content has been saved successfully."})
	}
	c.Redirect(http.StatusSeeOther, "/admin?tab="+tabContent)
}

func (s *server) newProductForm(c *gin.Context) {
	ctl := s.productController()
	ctl.Add()
	c.HTML(http.StatusOK, "product_form.tmpl", withUser(c, ViewData{
		"Mode":  ctl.State().String(),
		"Draft": ctl.Draft(),
	}))
}

func (s *server) createProduct(c *gin.Context) {
	ctl := s.productController()
	ctl.Add()
	s.submitProduct(c, ctl, "Product Created")
}

func (s *server) editProductForm(c *gin.Context) {
	p, ok := s.loadProduct(c)
	if !ok {
		return
	}
	ctl := s.productController()
	ctl.Edit(*p)
	c.HTML(http.StatusOK, "product_form.tmpl", withUser(c, ViewData{
		"Mode":    ctl.State().String(),
		"Draft":   ctl.Draft(),
		"Product": p,
	}))
}

func (s *server) updateProduct(c *gin.Context) {
	p, ok := s.loadProduct(c)
	if !ok {
		return
	}
	ctl := s.productController()
	ctl.Edit(*p)
	s.submitProduct(c, ctl, "Product Updated")
}

// submitProduct binds the posted form into ctl's open draft and saves it.
// A failure re-renders the form with what was typed.
func (s *server) submitProduct(c *gin.Context, ctl *admin.ProductController, done string) {
	var d admin.Draft
	bindErr := c.ShouldBind(&d)
	_ = ctl.SetDraft(d)

	err := bindErr
	if err == nil {
		err = ctl.Submit(c.Request.Context())
	}
	if err != nil {
		data := ViewData{
			"Mode":  ctl.State().String(),
			"Draft": ctl.Draft(),
			"Error": err.Error(),
		}
		if p, ok := ctl.Editing(); ok {
			data["Product"] = &p
		}
		c.HTML(http.StatusBadRequest, "product_form.tmpl", withUser(c, data))
		return
	}
	toast(c, Toast{Title: done})
	c.Redirect(http.StatusSeeOther, "/admin?tab="+tabProducts)
}

func (s *server) confirmDeleteProduct(c *gin.Context) {
	p, ok := s.loadProduct(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "product_delete.tmpl", withUser(c, ViewData{
		"Product": p,
		"Prompt":  admin.DeletePrompt,
	}))
}

func (s *server) deleteProduct(c *gin.Context) {
	confirmed := admin.ConfirmFunc(func(string) bool { return c.PostForm("confirm") == "yes" })
	deleted, err := s.productController().Delete(c.Request.Context(), c.Param("id"), confirmed)
	switch {
	case err != nil:
		toastError(c, err)
	case deleted:
		toast(c, Toast{Title: "Product Deleted"})
	}
	c.Redirect(http.StatusSeeOther, "/admin?tab="+tabProducts)
}

// loadProduct fetches the :id product. On failure it has already answered.
func (s *server) loadProduct(c *gin.Context) (*models.Product, bool) {
	p, err := s.Store.Products.Get(c.Request.Context(), c.Param("id"))
	if err == nil {
		return p, true
	}
	if errors.Is(err, store.ErrNotFound) {
		toast(c, Toast{Title: "Error", Description: "Product not found", Destructive: true})
	} else {
		toastError(c, err)
	}
	c.Redirect(http.StatusSeeOther, "/admin?tab="+tabProducts)
	return nil, false
}
