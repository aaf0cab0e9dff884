package tests

import (
	"testing"

	"negociopos/internal/model"
	"negociopos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func line(qty int, price int64) service.CartLine {
	return service.CartLine{VariantID: uuid.New(), Quantity: qty, UnitPrice: d(price)}
}

func TestEvaluatePromotions_Percentage(t *testing.T) {
	cart := []service.CartLine{line(2, 1000)}
	promos := []model.Promotion{{
		Name: "20% off", Type: model.PromotionPercentage,
		Value: d(20), AllProducts: true, Active: true,
	}}

	res := service.EvaluatePromotions(cart, promos, model.PaymentDebit)

	assert.True(t, res.Subtotal.Equal(d(2000)))
	assert.True(t, res.TotalDiscount.Equal(d(400)))
	assert.Equal(t, []string{"20% off"}, res.AppliedPromotions)
}

func TestEvaluatePromotions_FixedPerUnit(t *testing.T) {
	cart := []service.CartLine{line(3, 500)}
	promos := []model.Promotion{{
		Name: "$50 menos", Type: model.PromotionFixed,
		Value: d(50), AllProducts: true, Active: true,
	}}

	res := service.EvaluatePromotions(cart, promos, model.PaymentDebit)

	// 3 units x $50 each
	assert.True(t, res.TotalDiscount.Equal(d(150)))
}

func TestEvaluatePromotions_MultibuyCompleteSetsOnly(t *testing.T) {
	promos := []model.Promotion{{
		Name: "3x2", Type: model.PromotionMultibuy,
		BuyQuantity: intPtr(3), PayQuantity: intPtr(2),
		AllProducts: true, Active: true,
	}}

	// qty 7 at $100: two complete sets of 3, one free unit each
	res := service.EvaluatePromotions([]service.CartLine{line(7, 100)}, promos, model.PaymentCash)
	assert.True(t, res.TotalDiscount.Equal(d(200)))

	// qty 2: no complete set, no discount
	res = service.EvaluatePromotions([]service.CartLine{line(2, 100)}, promos, model.PaymentCash)
	assert.True(t, res.TotalDiscount.IsZero())
	assert.Empty(t, res.AppliedPromotions)
}

// Additive stacking: the payment-method percentage applies over what remains
// after per-item promotions, not over the original subtotal.
func TestEvaluatePromotions_StackingMultibuyThenPaymentMethod(t *testing.T) {
	cart := []service.CartLine{line(4, 100)}
	promos := []model.Promotion{
		{
			Name: "2x1", Type: model.PromotionMultibuy,
			BuyQuantity: intPtr(2), PayQuantity: intPtr(1),
			AllProducts: true, Active: true,
		},
		{
			Name: "10% efectivo", Type: model.PromotionPaymentMethod,
			Value: d(10), PaymentMethod: strPtr(model.PaymentCash),
			AllProducts: true, Active: true,
		},
	}

	res := service.EvaluatePromotions(cart, promos, model.PaymentCash)

	// 2x1 on qty 4: 2 sets, 2 free units = $200.
	// Then 10% of the remaining $200 = $20. Total $220.
	require.True(t, res.Subtotal.Equal(d(400)))
	assert.True(t, res.TotalDiscount.Equal(d(220)), "got %s", res.TotalDiscount)
	assert.Equal(t, []string{"2x1", "10% efectivo"}, res.AppliedPromotions)
}

func TestEvaluatePromotions_PaymentMethodMismatch(t *testing.T) {
	cart := []service.CartLine{line(1, 1000)}
	promos := []model.Promotion{{
		Name: "10% efectivo", Type: model.PromotionPaymentMethod,
		Value: d(10), PaymentMethod: strPtr(model.PaymentCash),
		AllProducts: true, Active: true,
	}}

	res := service.EvaluatePromotions(cart, promos, model.PaymentDebit)

	assert.True(t, res.TotalDiscount.IsZero())
	assert.Empty(t, res.AppliedPromotions)
}

func TestEvaluatePromotions_ScopeByVariantAndCategory(t *testing.T) {
	catID := uuid.New()
	inCat := service.CartLine{VariantID: uuid.New(), CategoryID: &catID, Quantity: 1, UnitPrice: d(100)}
	direct := line(1, 200)
	other := line(1, 400)

	promos := []model.Promotion{
		{
			Name: "promo categoria", Type: model.PromotionPercentage, Value: d(10), Active: true,
			Items: []model.PromotionItem{{CategoryID: &catID}},
		},
		{
			Name: "promo variante", Type: model.PromotionPercentage, Value: d(50), Active: true,
			Items: []model.PromotionItem{{VariantID: &direct.VariantID}},
		},
	}

	res := service.EvaluatePromotions([]service.CartLine{inCat, direct, other}, promos, model.PaymentCash)

	// 10% of 100 + 50% of 200; the third line is untouched
	assert.True(t, res.TotalDiscount.Equal(d(110)))
	assert.True(t, res.Lines[0].Discount.Equal(d(10)))
	assert.True(t, res.Lines[1].Discount.Equal(d(100)))
	assert.True(t, res.Lines[2].Discount.IsZero())
}

func TestEvaluatePromotions_InactiveIgnored(t *testing.T) {
	cart := []service.CartLine{line(1, 1000)}
	promos := []model.Promotion{{
		Name: "apagada", Type: model.PromotionPercentage,
		Value: d(50), AllProducts: true, Active: false,
	}}

	res := service.EvaluatePromotions(cart, promos, model.PaymentCash)
	assert.True(t, res.TotalDiscount.IsZero())
}

// Stacked discounts may exceed the subtotal; the engine reports the raw
// total and the caller clamps the payable amount at zero.
func TestEvaluatePromotions_DiscountCanExceedSubtotal(t *testing.T) {
	cart := []service.CartLine{line(1, 100)}
	promos := []model.Promotion{
		{Name: "80%", Type: model.PromotionPercentage, Value: d(80), AllProducts: true, Active: true},
		{Name: "otro 80%", Type: model.PromotionPercentage, Value: d(80), AllProducts: true, Active: true},
	}

	res := service.EvaluatePromotions(cart, promos, model.PaymentCash)
	assert.True(t, res.TotalDiscount.Equal(d(160)))
	assert.True(t, res.TotalDiscount.GreaterThan(res.Subtotal))
}

func TestEvaluatePromotions_Deterministic(t *testing.T) {
	cart := []service.CartLine{line(4, 100), line(2, 250)}
	promos := []model.Promotion{
		{Name: "2x1", Type: model.PromotionMultibuy, BuyQuantity: intPtr(2), PayQuantity: intPtr(1), AllProducts: true, Active: true},
		{Name: "5% cash", Type: model.PromotionPaymentMethod, Value: d(5), PaymentMethod: strPtr(model.PaymentCash), AllProducts: true, Active: true},
	}

	first := service.EvaluatePromotions(cart, promos, model.PaymentCash)
	for i := 0; i < 10; i++ {
		again := service.EvaluatePromotions(cart, promos, model.PaymentCash)
		assert.True(t, first.TotalDiscount.Equal(again.TotalDiscount))
		assert.Equal(t, first.AppliedPromotions, again.AppliedPromotions)
	}
}
