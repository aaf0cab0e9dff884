package handler

import (
	"net/http"

	"negociopos/internal/apierror"
	"negociopos/internal/dto"
	"negociopos/internal/middleware"
	"negociopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.SaleService }

func NewVentasHandler(svc service.SaleService) *VentasHandler { return &VentasHandler{svc: svc} }

// Procesar godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: descuenta stock, enruta el pago a caja o cuenta corriente y registra los movimientos de los tres libros.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcessSaleRequest true "Detalle de la venta"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Procesar(c *gin.Context) {
	var req dto.ProcessSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ProcessSale(c.Request.Context(), store, userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Anula una venta: restaura stock y revierte el cargo en cuenta corriente si corresponde.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	if err := h.svc.VoidSale(c.Request.Context(), store, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        page  query int    false "Página (default 1)"
// @Param        limit query int    false "Registros por página (default 50)"
// @Success      200   {object} dto.SaleListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), store, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Evaluar godoc
// @Summary      Evaluar promociones sobre un carrito
// @Description  Corre el motor de promociones sin efectos secundarios. Usado por el POS mientras se arma el carrito.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EvaluatePromotionsRequest true "Carrito"
// @Success      200  {object} dto.EvaluatePromotionsResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas/evaluar [post]
func (h *VentasHandler) Evaluar(c *gin.Context) {
	var req dto.EvaluatePromotionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.EvaluateCart(c.Request.Context(), store, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
