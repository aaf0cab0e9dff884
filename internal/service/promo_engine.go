package service

import (
	"negociopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one line of the cart being evaluated: variant, its category
// (for category-scoped promotions), quantity and the current unit price.
type CartLine struct {
	VariantID  uuid.UUID
	CategoryID *uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
}

// LineDiscount accumulates the per-item discounts applied to one cart line.
type LineDiscount struct {
	VariantID  uuid.UUID
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Promotions []string
}

// PromoResult is the outcome of one evaluation. TotalDiscount may exceed the
// subtotal when aggressive promotions stack; the caller clamps the payable
// total at zero.
type PromoResult struct {
	Subtotal          decimal.Decimal
	TotalDiscount     decimal.Decimal
	AppliedPromotions []string
	Lines             []LineDiscount
}

var oneHundred = decimal.NewFromInt(100)

// EvaluatePromotions computes the discounts a cart earns under the given
// promotions and payment method. Pure: no side effects, no repository access,
// idempotent and safe to call repeatedly while the cart is edited.
//
// Discounts are additive, not mutually exclusive: every matching promotion
// applies independently, in two passes.
//
//  1. Per-item promotions (MULTIBUY, PERCENTAGE, FIXED) discount each
//     matching line.
//  2. PAYMENT_METHOD promotions apply once, as a percentage of the subtotal
//     remaining after pass 1, only when the configured method matches.
//
// Callers pass promotions already filtered to active ones (repository side);
// inactive rows are ignored here as a second guard.
func EvaluatePromotions(cart []CartLine, promos []model.Promotion, paymentMethod string) PromoResult {
	res := PromoResult{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		Lines:         make([]LineDiscount, len(cart)),
	}
	applied := make(map[string]bool)

	for i, line := range cart {
		lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		res.Subtotal = res.Subtotal.Add(lineSubtotal)
		res.Lines[i] = LineDiscount{
			VariantID: line.VariantID,
			Subtotal:  lineSubtotal,
			Discount:  decimal.Zero,
		}
	}

	// Pass 1: per-item promotions
	for _, promo := range promos {
		if !promo.Active || promo.Type == model.PromotionPaymentMethod {
			continue
		}
		for i, line := range cart {
			if !promoMatchesLine(&promo, line) {
				continue
			}
			d := lineDiscount(&promo, line)
			if !d.IsPositive() {
				continue
			}
			res.Lines[i].Discount = res.Lines[i].Discount.Add(d)
			res.Lines[i].Promotions = append(res.Lines[i].Promotions, promo.Name)
			res.TotalDiscount = res.TotalDiscount.Add(d)
			if !applied[promo.Name] {
				applied[promo.Name] = true
				res.AppliedPromotions = append(res.AppliedPromotions, promo.Name)
			}
		}
	}

	// Pass 2: payment-method promotions over the remaining subtotal
	remaining := res.Subtotal.Sub(res.TotalDiscount)
	for _, promo := range promos {
		if !promo.Active || promo.Type != model.PromotionPaymentMethod {
			continue
		}
		if promo.PaymentMethod == nil || *promo.PaymentMethod != paymentMethod {
			continue
		}
		d := remaining.Mul(promo.Value).Div(oneHundred).Round(2)
		if !d.IsPositive() {
			continue
		}
		res.TotalDiscount = res.TotalDiscount.Add(d)
		if !applied[promo.Name] {
			applied[promo.Name] = true
			res.AppliedPromotions = append(res.AppliedPromotions, promo.Name)
		}
	}

	return res
}

// promoMatchesLine: AllProducts matches everything; otherwise any scope item
// naming the line's variant or category matches.
func promoMatchesLine(promo *model.Promotion, line CartLine) bool {
	if promo.AllProducts {
		return true
	}
	for _, item := range promo.Items {
		if item.VariantID != nil && *item.VariantID == line.VariantID {
			return true
		}
		if item.CategoryID != nil && line.CategoryID != nil && *item.CategoryID == *line.CategoryID {
			return true
		}
	}
	return false
}

func lineDiscount(promo *model.Promotion, line CartLine) decimal.Decimal {
	qty := decimal.NewFromInt(int64(line.Quantity))

	switch promo.Type {
	case model.PromotionMultibuy:
		if promo.BuyQuantity == nil || promo.PayQuantity == nil || *promo.BuyQuantity <= 0 {
			return decimal.Zero
		}
		sets := line.Quantity / *promo.BuyQuantity
		free := *promo.BuyQuantity - *promo.PayQuantity
		if sets <= 0 || free <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(sets * free)).Mul(line.UnitPrice)

	case model.PromotionPercentage:
		return qty.Mul(line.UnitPrice).Mul(promo.Value).Div(oneHundred).Round(2)

	case model.PromotionFixed:
		return qty.Mul(promo.Value)
	}
	return decimal.Zero
}
