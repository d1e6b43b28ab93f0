package handlers

import (
	"net/http"
	"strings"
	"time"

	"datex/middleware"
	"datex/models"
	"datex/services/expiry"
	"datex/services/product"
	"datex/services/user"
	"datex/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler exposes the product CRUD and summary endpoints.
type ProductHandler struct {
	Products product.ProductService
	Users    user.UserService
	Now      func() time.Time
}

func NewProductHandler(products product.ProductService, users user.UserService) *ProductHandler {
	return &ProductHandler{Products: products, Users: users, Now: time.Now}
}

type productRequest struct {
	Product      string `json:"product" binding:"required"`
	Expiry       string `json:"expiry" binding:"required,datetime=2006-01-02"`
	Category     string `json:"category" binding:"required,oneof=General Food Medicine Cosmetics Other"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Comment      string `json:"comment"`
	RemindBefore string `json:"remindBefore" binding:"required,oneof=1day 3days 1month 3months 6months"`
}

func (r productRequest) toInput() product.ProductInput {
	// Validated by the datetime binding tag, so this parse cannot fail.
	expiryDate, _ := time.Parse("2006-01-02", r.Expiry)
	return product.ProductInput{
		Name:         strings.TrimSpace(r.Product),
		Expiry:       expiryDate,
		Category:     r.Category,
		Quantity:     r.Quantity,
		Comment:      r.Comment,
		RemindBefore: r.RemindBefore,
	}
}

// productView decorates a product with its computed expiry status.
type productView struct {
	models.Product
	Status   expiry.Status `json:"status"`
	DaysLeft int           `json:"daysLeft"`
}

func (h *ProductHandler) toViews(products []models.Product) []productView {
	now := h.Now()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			Product:  p,
			Status:   expiry.Classify(p.Expiry, now),
			DaysLeft: expiry.DaysLeft(p.Expiry, now),
		})
	}
	return views
}

// ListProductsHandler handles GET /api/products.
func (h *ProductHandler) ListProductsHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	products, err := h.Products.List(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to list products", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load products", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.toViews(products))
}

// CreateProductHandler handles POST /api/products.
func (h *ProductHandler) CreateProductHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	account, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", err.Error())
		return
	}

	created, err := h.Products.Create(c.Request.Context(), account, req.toInput())
	if err != nil {
		utils.GetLogger().Error("Failed to create product", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to add product", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateProductHandler handles PUT /api/products/:id.
func (h *ProductHandler) UpdateProductHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	id := c.Param("id")

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	updated, err := h.Products.Update(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.JSONError(c, http.StatusNotFound, "Product not found", err.Error())
			return
		}
		utils.GetLogger().Error("Failed to update product",
			zap.String("userId", userID), zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update product", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProductHandler handles DELETE /api/products/:id.
func (h *ProductHandler) DeleteProductHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	id := c.Param("id")

	if err := h.Products.Delete(c.Request.Context(), userID, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.JSONError(c, http.StatusNotFound, "Product not found", err.Error())
			return
		}
		utils.GetLogger().Error("Failed to delete product",
			zap.String("userId", userID), zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete product", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// SummaryHandler handles GET /api/products/summary.
func (h *ProductHandler) SummaryHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	summary, err := h.Products.Summary(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load summary", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
