package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/models"
	"github.com/alwahda/fabricshop/internal/util"
)

const defaultProductImage = "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400&h=300"

// Display barcodes are decorative strings picked from a fixed pattern set.
var barcodePatterns = []string{
	"||||| |||| ||||",
	"|||| ||| |||||",
	"||| |||| ||||||",
	"|||| ||| |||| ||",
	"|| |||| ||||| |",
	"||| || ||| ||||",
	"|||| || ||| |||",
	"|| ||| |||| |||",
}

type CatalogHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

func (h *CatalogHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	category := models.Category{Name: req.Name, Description: req.Description, ImageURL: req.ImageURL}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category_id = ?", category)
	}
	if search := c.QueryParam("search"); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	var product models.Product
	if err := h.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct accepts a multipart form. Uploaded images are not stored
// anywhere yet; they map to /uploads/ placeholder URLs.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	categoryID := c.FormValue("categoryId")
	if name == "" || description == "" || categoryID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, description and categoryId are required")
	}

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil || price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	stock := 0
	if v := c.FormValue("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil || stock < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid stock")
		}
	}

	specifications := map[string]string{}
	if v := c.FormValue("specifications"); v != "" {
		if err := json.Unmarshal([]byte(v), &specifications); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid specifications")
		}
	}

	isActive := true
	if v := c.FormValue("isActive"); v != "" {
		isActive = v == "true"
	}

	var images []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for i, file := range form.File["images"] {
			images = append(images, fmt.Sprintf("/uploads/%d-%d-%s", time.Now().UnixMilli(), i, file.Filename))
		}
	}
	if len(images) == 0 {
		images = []string{defaultProductImage}
	}

	product := models.Product{
		Name:           name,
		Description:    description,
		Price:          price,
		CategoryID:     categoryID,
		Stock:          stock,
		Images:         images,
		Specifications: specifications,
		Barcode:        generateBarcode(),
		IsActive:       isActive,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, product.ID, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var req struct {
		Name           *string            `json:"name"`
		Description    *string            `json:"description"`
		Price          *decimal.Decimal   `json:"price"`
		CategoryID     *string            `json:"categoryId"`
		Stock          *int               `json:"stock"`
		Images         *[]string          `json:"images"`
		Specifications *map[string]string `json:"specifications"`
		IsActive       *bool              `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid stock")
		}
		product.Stock = *req.Stock
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Specifications != nil {
		product.Specifications = *req.Specifications
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, product.ID, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
	})
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	res := h.DB.Delete(&models.Product{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	h.publish(c, c.Param("id"), map[string]any{
		"type":      "product_deleted",
		"productID": c.Param("id"),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}

func (h *CatalogHandler) GetProductReviews(c echo.Context) error {
	var reviews []models.Review
	err := h.DB.Where("product_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *CatalogHandler) CreateProductReview(c echo.Context) error {
	var req struct {
		UserName   string `json:"userName"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
		IsVerified bool   `json:"isVerified"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.UserName == "" || req.Comment == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userName and comment are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	review := models.Review{
		ProductID:  product.ID,
		UserName:   req.UserName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsVerified: req.IsVerified,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, review)
}

func generateBarcode() string {
	return barcodePatterns[rand.Intn(len(barcodePatterns))]
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
