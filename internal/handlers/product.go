// internal/handlers/product.go
package handlers

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/catalog-admin/internal/services"
	"github.com/merchkit/catalog-admin/internal/store"
	"github.com/merchkit/catalog-admin/internal/utils"
)

type ProductHandler struct {
	catalogService *services.CatalogService
	productService *services.ProductService
	notifier       *services.NotificationService
	store          *store.Store
}

func NewProductHandler(catalogService *services.CatalogService, productService *services.ProductService, notifier *services.NotificationService, st *store.Store) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		productService: productService,
		notifier:       notifier,
		store:          st,
	}
}

// GET /v1/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := services.FilterState{
		Tab:          services.ParseTab(c.Query("tab")),
		Availability: queryValues(c, "availability"),
		Types:        queryValues(c, "type"),
		Vendors:      queryValues(c, "vendor"),
		Query:        c.Query("query"),
	}

	view := h.catalogService.Visible(filter)

	utils.SuccessResponse(c, gin.H{
		"products":        view.Products,
		"applied_filters": view.AppliedFilters,
		"empty_state":     view.EmptyState,
		"count":           len(view.Products),
	})
}

// GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, ok := h.store.Get(id)
	if !ok {
		utils.NotFoundResponse(c, "Product not found")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /v1/products/facets
func (h *ProductHandler) GetFacets(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"facets": h.store.Facets(),
	})
}

// POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var form services.CreateProductForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequestResponse(c, "Invalid form submission", err.Error())
		return
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	var batch []services.StagedFile
	for _, fileHeader := range multipartForm.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
			return
		}

		batch = append(batch, services.StagedFile{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	staging := services.NewStaging(h.notifier)
	if err := staging.Add(batch); err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			utils.ValidationErrorResponse(c, validationErr.Message, gin.H{"field": validationErr.Field})
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	submission := services.NewSubmission(form, staging)
	product, err := h.productService.Submit(c.Request.Context(), submission)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			utils.ValidationErrorResponse(c, validationErr.Message, gin.H{"field": validationErr.Field})
			return
		}

		var uploadErr *services.UploadError
		if errors.As(err, &uploadErr) {
			utils.InternalErrorResponse(c, "Error adding product. Please try again.")
			return
		}

		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Product added successfully!",
		"product": product,
	})
}

// GET /v1/notifications
func (h *ProductHandler) GetNotifications(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"notifications": h.notifier.Recent(),
	})
}

// queryValues reads a multi-select facet param, accepting both repeated
// params and comma-separated values.
func queryValues(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
