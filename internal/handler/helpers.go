package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"negociopos/internal/apierror"
	"negociopos/internal/ledger"
	"negociopos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// storeID extracts the tenant id from the JWT claims. A token whose store_id
// does not parse is rejected outright.
func storeID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.StoreID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token sin tienda valida"))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps the ledger error taxonomy onto HTTP status codes.
// Unknown errors become a 500 through the generic envelope, never exposing
// internals.
func writeServiceError(c *gin.Context, err error) {
	var (
		validationErr  *ledger.ValidationError
		stockErr       *ledger.InsufficientStockError
		stateErr       *ledger.StateError
		notFoundErr    *ledger.NotFoundError
		concurrencyErr *ledger.ConcurrencyError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &concurrencyErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

func parsePage(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
