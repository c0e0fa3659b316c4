package menu

import "qr-menu/menu-svc/internal/domain"

// Assemble deep-copies the section sequence into the exact shape that is
// persisted. Nothing is renamed or defaulted here.
func Assemble(sections []domain.MenuSection) []domain.MenuSection {
	out := make([]domain.MenuSection, len(sections))
	for i, s := range sections {
		out[i] = cloneSection(s)
	}
	return out
}

func cloneSection(s domain.MenuSection) domain.MenuSection {
	c := s
	if s.VariationCategories != nil {
		c.VariationCategories = append([]string(nil), s.VariationCategories...)
	}
	c.Items = make([]domain.MenuItem, len(s.Items))
	for i, item := range s.Items {
		c.Items[i] = cloneItem(item)
	}
	return c
}

func cloneItem(item domain.MenuItem) domain.MenuItem {
	c := item
	if item.Price != nil {
		c.Price = domain.Float(*item.Price)
	}
	if item.PriceVariations != nil {
		c.PriceVariations = append([]domain.PriceVariation(nil), item.PriceVariations...)
	}
	return c
}
