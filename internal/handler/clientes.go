package handler

import (
	"net/http"

	"negociopos/internal/apierror"
	"negociopos/internal/dto"
	"negociopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientesHandler struct{ svc service.CustomerService }

func NewClientesHandler(svc service.CustomerService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// RegistrarPago godoc
// @Summary Registra un pago que reduce el saldo de cuenta corriente
// @Description Un pago en efectivo exige caja abierta y genera el ingreso en caja dentro de la misma transaccion.
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente"
// @Param body body dto.RegisterPaymentRequest true "Pago"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/clientes/{id}/pagos [post]
func (h *ClientesHandler) RegistrarPago(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegisterPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegisterPayment(c.Request.Context(), store, customerID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos returns the customer's account ledger, newest first.
func (h *ClientesHandler) Movimientos(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	page, limit := parsePage(c)
	data, total, err := h.svc.Movements(c.Request.Context(), store, customerID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

// Reconciliar godoc
// @Summary Compara el saldo cacheado contra la suma del libro de cuenta corriente
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente"
// @Success 200 {object} dto.BalanceReconcileResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/clientes/{id}/reconciliar [get]
func (h *ClientesHandler) Reconciliar(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	store, ok := storeID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReconcileBalance(c.Request.Context(), store, customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
