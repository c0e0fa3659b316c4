package menu

import (
	"testing"

	"qr-menu/menu-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPublic_DisabledSectionHidden(t *testing.T) {
	r := &domain.Restaurant{ID: "r1", MenuSections: []domain.MenuSection{{
		ID:         "s1",
		Name:       "Hidden",
		IsDisabled: true,
		Items: []domain.MenuItem{
			{ID: "i1", Name: "A", Price: domain.Float(1)},
			{ID: "i2", Name: "B", Price: domain.Float(2)},
		},
	}}}

	assert.Empty(t, RenderPublic(r).Sections)
}

func TestRenderPublic_Filtering(t *testing.T) {
	r := &domain.Restaurant{
		ID:             "r1",
		Name:           "Cafe",
		CurrencySymbol: "$",
		MenuSections: []domain.MenuSection{
			{ID: "empty", Name: "Empty", Items: []domain.MenuItem{}},
			{ID: "all-off", Name: "All off", Items: []domain.MenuItem{
				{ID: "x", Name: "X", Price: domain.Float(3), IsDisabled: true},
			}},
			{ID: "mains", Name: "Mains", Items: []domain.MenuItem{
				{ID: "soup", Name: "Soup", Price: domain.Float(4)},
				{ID: "stew", Name: "Stew", Price: domain.Float(6), OutOfStock: true},
				{ID: "pie", Name: "Pie", Price: domain.Float(5), IsDisabled: true, OutOfStock: true},
			}},
		},
	}

	menu := RenderPublic(r)
	require.Len(t, menu.Sections, 1)
	assert.Equal(t, "Mains", menu.Sections[0].Name)

	items := menu.Sections[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "soup", items[0].ID)
	assert.False(t, items[0].OutOfStock)
	assert.Equal(t, "stew", items[1].ID)
	assert.True(t, items[1].OutOfStock)
	assert.Equal(t, "$6", items[1].Prices[0].Display)

	// input untouched
	assert.Len(t, r.MenuSections, 3)
	assert.Len(t, r.MenuSections[2].Items, 3)
}

func TestPrices(t *testing.T) {
	tests := []struct {
		name string
		item domain.MenuItem
		want []PublicPrice
	}{
		{
			name: "variations listed in order",
			item: domain.MenuItem{Price: domain.Float(9), PriceVariations: []domain.PriceVariation{{Name: "Half", Price: 5}, {Name: "Full", Price: 8.5}}},
			want: []PublicPrice{{Name: "Half", Amount: 5, Display: "₹5"}, {Name: "Full", Amount: 8.5, Display: "₹8.5"}},
		},
		{
			name: "positive base price",
			item: domain.MenuItem{Price: domain.Float(12.5)},
			want: []PublicPrice{{Amount: 12.5, Display: "₹12.5"}},
		},
		{
			name: "zero price renders nothing",
			item: domain.MenuItem{Price: domain.Float(0)},
			want: []PublicPrice{},
		},
		{
			name: "no price renders nothing",
			item: domain.MenuItem{},
			want: []PublicPrice{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Prices(testCase.item, domain.DefaultCurrencySymbol))
		})
	}
}

func TestRenderPublic_Theme(t *testing.T) {
	r := &domain.Restaurant{ID: "r1", Theme: domain.Theme{PrimaryColor: "#ff0000"}}
	menu := RenderPublic(r)

	assert.Equal(t, "#ff0000", menu.Theme.PrimaryColor)
	assert.NotEmpty(t, menu.Theme.Layout)
	assert.Equal(t, "#ff0000", menu.Style["--menu-primary"])
	assert.Equal(t, domain.DefaultCurrencySymbol, menu.Currency)
	assert.NotNil(t, menu.Sections)
}
