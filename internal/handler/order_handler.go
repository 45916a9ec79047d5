package handler

import (
	"net/http"

	"inventory/internal/service"
	"inventory/pkg/pagination"
	"inventory/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves purchases and sales, both recorded by the order service.
type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchases := router.Group("/api/purchases")
	{
		purchases.GET("", h.GetPurchases)
		purchases.GET("/:id", h.GetPurchase)
		purchases.POST("", h.CreatePurchase)
	}

	sales := router.Group("/api/sales")
	{
		sales.GET("", h.GetSales)
		sales.GET("/:id", h.GetSale)
		sales.POST("", h.CreateSale)
	}
}

// @Summary      Get purchases
// @Description  Purchase headers with supplier name, latest purchase date first
// @Tags         purchases
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {array}   service.PurchaseResponse
// @Failure      500    {object}  response.ErrorBody
// @Router       /api/purchases [get]
func (h *OrderHandler) GetPurchases(c *gin.Context) {
	p := pagination.Parse(c)
	purchases, err := h.orderService.ListPurchases(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// @Summary      Get purchase
// @Description  Purchase header with its line items
// @Tags         purchases
// @Produce      json
// @Param        id   path      int  true  "Purchase ID"
// @Success      200  {object}  service.PurchaseResponse
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/purchases/{id} [get]
func (h *OrderHandler) GetPurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchase, err := h.orderService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// CreatePurchase records a purchase, its items and the stock increase atomically
// @Summary      Create purchase
// @Description  Totals are computed server side. Stock of every line product increases by its quantity.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseRequest  true  "Purchase"
// @Success      201      {object}  response.Created
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody  "Unknown supplier or product"
// @Failure      409      {object}  response.ErrorBody  "Duplicate invoice number"
// @Router       /api/purchases [post]
func (h *OrderHandler) CreatePurchase(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.orderService.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCreated(id, "Purchase created"))
}

// @Summary      Get sales
// @Description  Sale headers, latest sale date first
// @Tags         sales
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {array}   service.SaleResponse
// @Failure      500    {object}  response.ErrorBody
// @Router       /api/sales [get]
func (h *OrderHandler) GetSales(c *gin.Context) {
	p := pagination.Parse(c)
	sales, err := h.orderService.ListSales(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// @Summary      Get sale
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "Sale ID"
// @Success      200  {object}  service.SaleResponse
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/sales/{id} [get]
func (h *OrderHandler) GetSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := h.orderService.GetSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// CreateSale records a sale, its items and the stock decrease atomically
// @Summary      Create sale
// @Description  Sales carry no tax. unit_price defaults to selling_price.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSaleRequest  true  "Sale"
// @Success      201      {object}  response.Created
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody  "Unknown product"
// @Failure      409      {object}  response.ErrorBody  "Duplicate invoice number or insufficient stock"
// @Router       /api/sales [post]
func (h *OrderHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.orderService.CreateSale(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCreated(id, "Sale created"))
}
