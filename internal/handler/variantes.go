package handler

import (
	"net/http"

	"negociopos/internal/apierror"
	"negociopos/internal/dto"
	"negociopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VariantesHandler struct{ svc service.InventoryService }

func NewVariantesHandler(svc service.InventoryService) *VariantesHandler {
	return &VariantesHandler{svc: svc}
}

// AjustarStock godoc
// @Summary Ajuste manual de stock con delta firmado
// @Description Registra una entrada (delta positivo) o salida (delta negativo) con su motivo. MERMA/ROBO/VENCIMIENTO se asientan como LOSS, COMPRA como BUY.
// @Tags variantes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la variante"
// @Param body body dto.AdjustStockRequest true "Ajuste"
// @Success 200 {object} dto.AdjustStockResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/variantes/{id}/stock [post]
func (h *VariantesHandler) AjustarStock(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), store, variantID, req.Delta, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos returns the variant's stock ledger, newest first.
func (h *VariantesHandler) Movimientos(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	page, limit := parsePage(c)
	resp, err := h.svc.ListMovements(c.Request.Context(), store, variantID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconciliar godoc
// @Summary Compara el stock cacheado contra la suma del libro de movimientos
// @Tags variantes
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la variante"
// @Success 200 {object} dto.StockReconcileResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/variantes/{id}/reconciliar [get]
func (h *VariantesHandler) Reconciliar(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReconcileStock(c.Request.Context(), store, variantID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
