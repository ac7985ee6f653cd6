package handlers

import (
	"net/http"
	"strconv"

	"cataloghub/internal/repo"
	"cataloghub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productRepo *repo.ProductRepository
}

func NewProductHandler(productRepo *repo.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

// ProductRequest is the create/update payload.
type ProductRequest struct {
	SKU         string  `json:"sku" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
}

// List godoc
// @Summary List products
// @Description Get products with optional sku/name/description/is_active filters
// @Tags products
// @Produce json
// @Param sku query string false "Filter by SKU substring"
// @Param name query string false "Filter by name substring"
// @Param description query string false "Filter by description substring"
// @Param is_active query bool false "Filter by active flag"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(50)
// @Success 200 {object} models.PaginationResult[models.Product]
// @Failure 500 {object} map[string]string
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := repo.ProductFilter{
		SKU:         c.QueryParam("sku"),
		Name:        c.QueryParam("name"),
		Description: c.QueryParam("description"),
	}
	if v := c.QueryParam("is_active"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 50
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 200 {
		perPage = ps
	}

	result, err := h.productRepo.List(filter, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch products"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    isActive,
	}
	if err := h.productRepo.Create(product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create product"})
	}

	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Product data"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.productRepo.Update(product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update product"})
	}

	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	if err := h.productRepo.Delete(id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkDelete godoc
// @Summary Delete all products
// @Tags products
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /products/bulk-delete [delete]
func (h *ProductHandler) BulkDelete(c echo.Context) error {
	count, err := h.productRepo.DeleteAll()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete products"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted_count": count,
		"message":       "Successfully deleted " + strconv.FormatInt(count, 10) + " products",
	})
}
