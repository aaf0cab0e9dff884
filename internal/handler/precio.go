package handler

import (
	"net/http"

	"negociopos/internal/apierror"
	"negociopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrecioHandler serves the public price check endpoint for the in-store
// verifier kiosk. No authentication and no side effects; the store comes
// from the path because the kiosk carries no token.
type PrecioHandler struct{ svc service.PriceService }

func NewPrecioHandler(svc service.PriceService) *PrecioHandler { return &PrecioHandler{svc: svc} }

// Consultar godoc
// @Summary Consulta de precio por codigo de barras (sin autenticacion)
// @Tags precio
// @Produce json
// @Param store path string true "UUID de la tienda"
// @Param barcode path string true "Codigo de barras"
// @Success 200 {object} dto.PriceCheckResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{store}/{barcode} [get]
func (h *PrecioHandler) Consultar(c *gin.Context) {
	store, err := uuid.Parse(c.Param("store"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Tienda invalida"))
		return
	}
	resp, err := h.svc.CheckPrice(c.Request.Context(), store, c.Param("barcode"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
