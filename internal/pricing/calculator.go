// Package pricing computes the per-unit and total price of a submitted design.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line is the pricing input for one product configuration.
type Line struct {
	BasePrice    decimal.Decimal
	ElementCount int
	Quantities   map[string]int
}

// Quote is the computed price of a line.
type Quote struct {
	PerUnit       decimal.Decimal
	Total         decimal.Decimal
	TotalQuantity int
	Quantities    map[string]int
}

// Calculator applies the per-element surcharge.
type Calculator struct {
	surcharge decimal.Decimal
	currency  string
}

func NewCalculator(surcharge decimal.Decimal, currency string) (*Calculator, error) {
	if surcharge.IsNegative() {
		return nil, fmt.Errorf("surcharge cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("currency required")
	}
	return &Calculator{surcharge: surcharge, currency: currency}, nil
}

func (c *Calculator) Currency() string { return c.currency }

// PerUnit is the base price plus the surcharge for every placed element.
// It does not depend on quantities.
func (c *Calculator) PerUnit(base decimal.Decimal, elementCount int) decimal.Decimal {
	if elementCount < 0 {
		elementCount = 0
	}
	return base.Add(c.surcharge.Mul(decimal.NewFromInt(int64(elementCount))))
}

// Quote prices a line. Sizes with a zero quantity are dropped; a line with
// no positive quantity is rejected.
func (c *Calculator) Quote(line Line) (Quote, error) {
	if line.BasePrice.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	quantities := make(map[string]int, len(line.Quantities))
	total := 0
	for size, qty := range line.Quantities {
		if qty < 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity for size %s cannot be negative", size))
		}
		if qty == 0 {
			continue
		}
		quantities[size] = qty
		total += qty
	}
	if total == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "select a quantity for at least one size")
	}

	perUnit := c.PerUnit(line.BasePrice, line.ElementCount)
	return Quote{
		PerUnit:       perUnit,
		Total:         perUnit.Mul(decimal.NewFromInt(int64(total))),
		TotalQuantity: total,
		Quantities:    quantities,
	}, nil
}

// Sizes returns the sizes of q with a positive quantity in stable order.
func (q Quote) Sizes() []string {
	sizes := make([]string, 0, len(q.Quantities))
	for size := range q.Quantities {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}
