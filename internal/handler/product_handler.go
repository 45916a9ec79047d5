package handler

import (
	"net/http"

	"inventory/internal/service"
	"inventory/pkg/pagination"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/movements", h.GetProductMovements)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// GetProducts lists products, newest first
// @Summary      Get products
// @Description  Retrieves every product ordered by creation time, newest first. page/limit are optional.
// @Tags         products
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {array}   service.ProductResponse
// @Failure      500    {object}  response.ErrorBody
// @Router       /api/products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	p := pagination.Parse(c)
	products, err := h.productService.ListProducts(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  service.ProductResponse
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductMovements returns the stock ledger of one product
// @Summary      Get product stock movements
// @Description  Lists the stock movements of a product, newest first
// @Tags         products
// @Produce      json
// @Param        id     path      int  true   "Product ID"
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {array}   service.StockMovementResponse
// @Failure      404    {object}  response.ErrorBody
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) GetProductMovements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	movements, err := h.productService.ListMovements(c.Request.Context(), id, p.Limit, p.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// CreateProduct creates a new inventory product entry
// @Summary      Create product
// @Description  name and sku are required; reorder_level defaults to 10
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProductRequest  true  "Product"
// @Success      201      {object}  service.ProductResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      409      {object}  response.ErrorBody
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces every mutable field of a product
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Product ID"
// @Param        payload  body      service.ProductRequest  true  "Product"
// @Success      200      {object}  service.ProductResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Failure      409      {object}  response.ErrorBody
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product; deleting a missing id succeeds
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  response.Message
// @Failure      409  {object}  response.ErrorBody
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewMessage("Product deleted"))
}
