package handler

import (
	"net/http"

	"negociopos/internal/service"

	"github.com/gin-gonic/gin"
)

type PromocionesHandler struct{ svc service.PromotionService }

func NewPromocionesHandler(svc service.PromotionService) *PromocionesHandler {
	return &PromocionesHandler{svc: svc}
}

// ListarActivas godoc
// @Summary Lista las promociones vigentes de la tienda
// @Tags promociones
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PromotionResponse
// @Router /v1/promociones [get]
func (h *PromocionesHandler) ListarActivas(c *gin.Context) {
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListActive(c.Request.Context(), store)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
