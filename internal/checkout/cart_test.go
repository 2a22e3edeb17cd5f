package checkout

import (
	"testing"

	"milktea-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct() models.Product {
	return models.Product{
		ID:        1,
		Name:      "Classic Milk Tea",
		BasePrice: 120,
		Sizes: []models.ProductSize{
			{Name: "Medium", PriceDelta: 0},
			{Name: "Large", PriceDelta: 20},
		},
		Addons: []models.ProductAddon{
			{Name: "Pearls", PriceDelta: 15},
			{Name: "Pudding", PriceDelta: 20},
		},
		SugarLevels: []string{"0%", "50%", "100%"},
		IceLevels:   []string{"Less Ice", "Regular Ice"},
	}
}

func TestUnitPrice(t *testing.T) {
	p := sampleProduct()

	tests := []struct {
		name    string
		sel     Selection
		want    float64
		wantErr bool
	}{
		{
			name: "base size no addons",
			sel:  Selection{Size: "Medium", SugarLevel: "50%", IceLevel: "Regular Ice"},
			want: 120,
		},
		{
			name: "size delta plus one addon",
			sel:  Selection{Size: "Large", Addons: []string{"Pearls"}},
			want: 155,
		},
		{
			name: "all addons",
			sel:  Selection{Size: "Medium", Addons: []string{"Pearls", "Pudding"}},
			want: 155,
		},
		{
			name:    "unknown size",
			sel:     Selection{Size: "Venti"},
			wantErr: true,
		},
		{
			name:    "unknown addon",
			sel:     Selection{Size: "Medium", Addons: []string{"Boba Supreme"}},
			wantErr: true,
		},
		{
			name:    "unknown sugar level",
			sel:     Selection{Size: "Medium", SugarLevel: "110%"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnitPrice(p, tt.sel)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Listing the same addon twice must not double-count: it is a toggle,
// not a counter.
func TestUnitPriceAddonToggle(t *testing.T) {
	p := sampleProduct()

	once, err := UnitPrice(p, Selection{Size: "Medium", Addons: []string{"Pearls"}})
	require.NoError(t, err)

	twice, err := UnitPrice(p, Selection{Size: "Medium", Addons: []string{"Pearls", "Pearls"}})
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 135.0, twice)
}

func TestCartTotal(t *testing.T) {
	// One 120 drink with +20 size and +15 addon (155), plus one 130 drink
	// with no modifiers: the cart total is exactly 285.
	cart := Cart{Items: []LineItem{
		{ProductID: 1, ProductName: "Classic Milk Tea", Quantity: 1, UnitPrice: 155},
		{ProductID: 2, ProductName: "Wintermelon Milk Tea", Quantity: 1, UnitPrice: 130},
	}}

	assert.Equal(t, 285.0, cart.Total())
}

func TestCartTotalQuantities(t *testing.T) {
	cart := Cart{Items: []LineItem{
		{Quantity: 3, UnitPrice: 110},
		{Quantity: 2, UnitPrice: 145},
	}}
	assert.Equal(t, 620.0, cart.Total())

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total())
}
