// internal/handlers/product_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/catalog-admin/internal/middleware"
	"github.com/merchkit/catalog-admin/internal/models"
	"github.com/merchkit/catalog-admin/internal/services"
	"github.com/merchkit/catalog-admin/internal/store"
	"github.com/merchkit/catalog-admin/internal/utils"
)

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	st := store.New()
	st.SetProducts([]models.Product{
		{ID: 1, Title: "Denim Jacket", Type: "Outerwear", Vendor: "Acme", Status: models.ProductStatusActive, Images: models.ImageList{"https://i.test/1.jpg"}},
		{ID: 2, Title: "Linen Shirt", Type: "Tops", Vendor: "Northwind", Status: models.ProductStatusDraft, Images: models.ImageList{"https://i.test/2.jpg"}},
	})

	notifier := services.NewNotificationService()
	catalogService := services.NewCatalogService(st)
	productService := services.NewProductService(st, stubUploader{}, notifier, nil, nil, "products")
	handler := NewProductHandler(catalogService, productService, notifier, st)

	router := gin.New()
	v1 := router.Group("/v1")
	v1.GET("/products", handler.GetProducts)
	v1.GET("/products/facets", handler.GetFacets)
	v1.GET("/products/:id", handler.GetProduct)
	v1.POST("/products", middleware.AuthRequired(), handler.CreateProduct)
	v1.GET("/notifications", middleware.AuthRequired(), handler.GetNotifications)

	return router, st
}

func authToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWT("admin", 1)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetProductsFiltered(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/v1/products?tab=active&vendor=Acme", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.True(t, body["success"].(bool))

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
	assert.Equal(t, false, data["empty_state"])

	products := data["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Denim Jacket", products[0].(map[string]interface{})["title"])
}

func TestGetProductsAppliedFilterChips(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/v1/products?availability=Online+Store&type=Tops,Outerwear", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})

	chips := data["applied_filters"].([]interface{})
	require.Len(t, chips, 2)

	first := chips[0].(map[string]interface{})
	assert.Equal(t, "availability", first["key"])
	assert.Equal(t, "Available on Online Store", first["label"])

	second := chips[1].(map[string]interface{})
	assert.Equal(t, "Product Type", second["key"])
	assert.Equal(t, "Tops, Outerwear", second["label"])
}

func TestGetProductByID(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/v1/products/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/v1/products/99", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest("GET", "/v1/products/abc", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFacets(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/v1/products/facets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	facets := data["facets"].(map[string]interface{})

	types := facets["types"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"Outerwear", "Tops"}, types)
}

func TestCreateProductRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest("POST", "/v1/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// multipartBody builds a form submission with the given fields and one PNG
// part per image name.
func multipartBody(t *testing.T, fields map[string]string, images []string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for _, name := range images {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func validFormFields() map[string]string {
	return map[string]string{
		"title":        "Rain Coat",
		"description":  "Keeps you dry",
		"rating_rate":  "4.2",
		"rating_count": "7",
		"category":     "clothing",
		"inventory":    "5",
		"type":         "Outerwear",
		"vendor":       "Acme",
		"price":        "59.99",
		"status":       "active",
	}
}

func TestCreateProductSuccess(t *testing.T) {
	router, st := setupTestRouter(t)
	before := st.Len()

	body, contentType := multipartBody(t, validFormFields(), []string{"coat.png"})
	req, _ := http.NewRequest("POST", "/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+authToken(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Product added successfully!", data["message"])

	product := data["product"].(map[string]interface{})
	assert.Equal(t, "Rain Coat", product["title"])
	assert.Equal(t, 59.99, product["price"])

	assert.Equal(t, before+1, st.Len())
}

func TestCreateProductFirstValidationFailure(t *testing.T) {
	router, st := setupTestRouter(t)
	before := st.Len()

	fields := validFormFields()
	delete(fields, "title")

	body, contentType := multipartBody(t, fields, []string{"coat.png"})
	req, _ := http.NewRequest("POST", "/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+authToken(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body2 := decodeBody(t, w)
	assert.False(t, body2["success"].(bool))

	apiErr := body2["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
	assert.Equal(t, "Please enter a product title", apiErr["message"])

	assert.Equal(t, before, st.Len())
}

func TestCreateProductRejectsNonImageBatch(t *testing.T) {
	router, st := setupTestRouter(t)
	before := st.Len()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range validFormFields() {
		require.NoError(t, writer.WriteField(key, value))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="doc.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte{0x25})
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/v1/products", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+authToken(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeBody(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "Invalid file type(s): application/pdf. Please upload only images.", apiErr["message"])

	assert.Equal(t, before, st.Len())
}

func TestGetNotificationsAfterCreate(t *testing.T) {
	router, _ := setupTestRouter(t)

	body, contentType := multipartBody(t, validFormFields(), []string{"coat.png"})
	req, _ := http.NewRequest("POST", "/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+authToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest("GET", "/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	notifications := data["notifications"].([]interface{})
	require.NotEmpty(t, notifications)

	last := notifications[len(notifications)-1].(map[string]interface{})
	assert.Equal(t, "Product added successfully!", last["message"])
	assert.Equal(t, "success", last["level"])
}
