package composer

import (
	"errors"

	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	ErrProductRequired = errors.New("select a product")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("product has no valid sale price")
	ErrItemIndex       = errors.New("item index out of range")
	ErrLastItem        = errors.New("need at least one row")
)

// Ledger is the ordered list of sale lines. Insertion order is display order.
type Ledger []entity.SaleItem

// Add appends a line for product. The ledger is unchanged on error.
func (l *Ledger) Add(product *entity.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.Sellable() {
		return ErrInvalidPrice
	}

	*l = append(*l, entity.SaleItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.SalePrice,
		UnitCost:    product.PurchasePrice,
		TotalPrice:  product.SalePrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Position:    len(*l),
	})
	return nil
}

// Remove deletes the line at index and renumbers the rest.
func (l *Ledger) Remove(index int) error {
	if index < 0 || index >= len(*l) {
		return ErrItemIndex
	}
	items := append((*l)[:index:index], (*l)[index+1:]...)
	for i := range items {
		items[i].Position = i
	}
	*l = items
	return nil
}

// RemoveKeepingOne is Remove for a persisted sale, which may never be left
// without lines.
func (l *Ledger) RemoveKeepingOne(index int) error {
	if index < 0 || index >= len(*l) {
		return ErrItemIndex
	}
	if len(*l) <= 1 {
		return ErrLastItem
	}
	return l.Remove(index)
}
