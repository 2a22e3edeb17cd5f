package checkout

import (
	"fmt"

	"milktea-server/internal/models"
)

// Selection is one customer's customization of a product.
type Selection struct {
	Size       string   `json:"size" binding:"required"`
	SugarLevel string   `json:"sugar_level"`
	IceLevel   string   `json:"ice_level"`
	Addons     []string `json:"addons"`
}

// LineItem is one customized drink in the cart with its resolved price.
type LineItem struct {
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Selection   Selection `json:"selection"`
}

// UnitPrice resolves the final price of one cup:
// base price + size delta + sum of chosen addon deltas.
// Addons are a toggle set: listing the same addon twice never double-counts.
func UnitPrice(p models.Product, sel Selection) (float64, error) {
	price := p.BasePrice

	found := false
	for _, s := range p.Sizes {
		if s.Name == sel.Size {
			price += s.PriceDelta
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("product %q has no size %q", p.Name, sel.Size)
	}

	if sel.SugarLevel != "" && !contains(p.SugarLevels, sel.SugarLevel) {
		return 0, fmt.Errorf("product %q has no sugar level %q", p.Name, sel.SugarLevel)
	}
	if sel.IceLevel != "" && !contains(p.IceLevels, sel.IceLevel) {
		return 0, fmt.Errorf("product %q has no ice level %q", p.Name, sel.IceLevel)
	}

	seen := map[string]bool{}
	for _, name := range sel.Addons {
		if seen[name] {
			continue
		}
		seen[name] = true

		matched := false
		for _, a := range p.Addons {
			if a.Name == name {
				price += a.PriceDelta
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("product %q has no addon %q", p.Name, name)
		}
	}

	return price, nil
}

// Cart is the ordered list of line items being checked out.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total sums unit price times quantity over every line.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Clear empties the cart. Called by the flow consumer on payment success.
func (c *Cart) Clear() {
	c.Items = nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
