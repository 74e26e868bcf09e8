package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/excel"
	"github.com/arent-kient/api-key-dashboard/internal/utils"
)

// APIKeyHandler handles HTTP requests related to API keys
type APIKeyHandler struct {
	apiKeyService *api_key.Service
	excelService  *excel.Service
}

// NewAPIKeyHandler creates a new APIKeyHandler instance
func NewAPIKeyHandler(apiKeyService *api_key.Service) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService: apiKeyService,
		excelService:  excel.NewExcelService(),
	}
}

// List handles GET /api/keys
// @Summary List API keys
// @Description List every API key, newest first. Passing page or page_size returns one page with pagination metadata.
// @Tags api-keys
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size" maximum(100)
// @Success 200 {object} models.APIKeyListResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/keys [get]
func (h *APIKeyHandler) List(c *gin.Context) {
	params, paged := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	if !paged {
		keys, err := h.apiKeyService.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": keys})
		return
	}

	keys, info, err := h.apiKeyService.ListPage(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": keys, "pagination": info})
}

// Create handles POST /api/keys
// @Summary Store an API key
// @Description Store a key generated by the caller
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body models.CreateAPIKeyRequest true "Key to store"
// @Success 200 {object} models.APIKeyResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/keys [post]
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	key, err := h.apiKeyService.Insert(sessionEventContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": key})
}

// Get handles GET /api/keys/:id
// @Summary Get an API key
// @Tags api-keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} models.APIKeyResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/keys/{id} [get]
func (h *APIKeyHandler) Get(c *gin.Context) {
	key, err := h.apiKeyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": key})
}

// Patch handles PATCH /api/keys/:id
// @Summary Update an API key
// @Description Update name, type, usage, monthly_limit or last_used. id, key and created_at cannot be changed.
// @Tags api-keys
// @Accept json
// @Produce json
// @Param id path string true "Key ID"
// @Param request body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.APIKeyResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/keys/{id} [patch]
func (h *APIKeyHandler) Patch(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	key, err := h.apiKeyService.Patch(sessionEventContext(c), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": key})
}

// Delete handles DELETE /api/keys/:id
// @Summary Delete an API key
// @Tags api-keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/keys/{id} [delete]
func (h *APIKeyHandler) Delete(c *gin.Context) {
	if err := h.apiKeyService.Delete(sessionEventContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Export handles GET /api/keys/export
// @Summary Export API keys
// @Description Download every key as an Excel workbook. Keys are masked.
// @Tags api-keys
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} models.ErrorResponse
// @Router /api/keys/export [get]
func (h *APIKeyHandler) Export(c *gin.Context) {
	keys, err := h.apiKeyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.excelService.ExportAPIKeys(keys, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+excel.Filename(time.Now())+`"`)
	c.Data(http.StatusOK, excel.ContentType, buf.Bytes())
}

// Protected handles GET /api/protected
// @Summary Check an API key
// @Description Succeeds when the request carries a stored API key
// @Tags api-keys
// @Produce json
// @Param Authorization header string false "ApiKey <key>"
// @Param x-api-key header string false "API key"
// @Success 200 {object} map[string]interface{} "valid: true, name, type"
// @Failure 401 {object} models.ErrorResponse
// @Router /api/protected [get]
func (h *APIKeyHandler) Protected(c *gin.Context) {
	key, ok := middleware.GetAPIKey(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"name":  key.Name,
		"type":  key.Type,
	})
}
