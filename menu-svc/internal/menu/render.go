package menu

import (
	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/theme"
)

type PublicPrice struct {
	Name    string  `json:"name,omitempty"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

type PublicItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	OutOfStock  bool          `json:"outOfStock"`
	Prices      []PublicPrice `json:"prices"`
}

type PublicSection struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Items []PublicItem `json:"items"`
}

// PublicMenu is the read-only projection shown to visitors.
type PublicMenu struct {
	RestaurantID string            `json:"restaurantId"`
	Name         string            `json:"name"`
	Location     string            `json:"location,omitempty"`
	Contact      string            `json:"contact,omitempty"`
	Description  string            `json:"description,omitempty"`
	Currency     string            `json:"currencySymbol"`
	Sections     []PublicSection   `json:"sections"`
	Theme        domain.Theme      `json:"theme"`
	Style        map[string]string `json:"style"`
}

// RenderPublic drops disabled sections and items, and sections that end up
// empty. Out-of-stock items stay, flagged.
func RenderPublic(r *domain.Restaurant) PublicMenu {
	currency := r.EffectiveCurrency()
	out := PublicMenu{
		RestaurantID: r.ID,
		Name:         r.Name,
		Location:     r.Location,
		Contact:      r.Contact,
		Description:  r.Description,
		Currency:     currency,
		Sections:     RenderSections(r.MenuSections, currency),
		Theme:        theme.WithDefaults(r.Theme),
		Style:        theme.CSSVariables(r.Theme),
	}
	return out
}

func RenderSections(sections []domain.MenuSection, currency string) []PublicSection {
	groups := make([]PublicSection, 0, len(sections))
	for _, sec := range sections {
		if sec.IsDisabled {
			continue
		}
		var items []PublicItem
		for _, item := range sec.Items {
			if item.IsDisabled {
				continue
			}
			items = append(items, PublicItem{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				ImageURL:    item.ImageURL,
				OutOfStock:  item.OutOfStock,
				Prices:      Prices(item, currency),
			})
		}
		if len(items) == 0 {
			continue
		}
		groups = append(groups, PublicSection{ID: sec.ID, Name: sec.Name, Items: items})
	}
	return groups
}

// Prices lists every variation when there are any, else the base price if it
// is positive, else nothing.
func Prices(item domain.MenuItem, currency string) []PublicPrice {
	if len(item.PriceVariations) > 0 {
		prices := make([]PublicPrice, 0, len(item.PriceVariations))
		for _, v := range item.PriceVariations {
			prices = append(prices, PublicPrice{Name: v.Name, Amount: v.Price, Display: domain.FormatPrice(currency, v.Price)})
		}
		return prices
	}
	if item.Price != nil && *item.Price > 0 {
		return []PublicPrice{{Amount: *item.Price, Display: domain.FormatPrice(currency, *item.Price)}}
	}
	return []PublicPrice{}
}
