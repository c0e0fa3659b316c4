package menu

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"qr-menu/menu-svc/internal/domain"

	"github.com/google/uuid"
)

func NewSectionID() string { return uuid.NewString() }

func NewItemID() string { return uuid.NewString() }

// PriceText is a price as typed into a form. It decodes from either a JSON
// string or a JSON number.
type PriceText string

func (p *PriceText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PriceText(n.String())
	return nil
}

func (p PriceText) Blank() bool { return strings.TrimSpace(string(p)) == "" }

func (p PriceText) Parse() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func PriceTextOf(price *float64) PriceText {
	if price == nil {
		return ""
	}
	return PriceText(strconv.FormatFloat(*price, 'f', -1, 64))
}

type VariationDraft struct {
	Name  string    `json:"name"`
	Price PriceText `json:"price"`
}

// ItemDraft holds the fields of the item form, for both create and edit.
type ItemDraft struct {
	SectionID       string           `json:"sectionId"`
	ItemID          string           `json:"itemId,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           PriceText        `json:"price"`
	ImageURL        string           `json:"imageUrl"`
	PriceVariations []VariationDraft `json:"priceVariations"`
}

func ValidateSectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "Section name is required")
	}
	return name, nil
}

// ValidateItem turns a draft into a menu item. With at least one price
// variation the base price is dropped; without any, a non-negative base price
// is mandatory. Blank variation rows are ignored.
func ValidateItem(d ItemDraft) (domain.MenuItem, error) {
	item := domain.MenuItem{
		ID:          d.ItemID,
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		ImageURL:    strings.TrimSpace(d.ImageURL),
	}
	if item.Name == "" {
		return domain.MenuItem{}, invalid("name", "Item name is required")
	}

	for i, v := range d.PriceVariations {
		name := strings.TrimSpace(v.Name)
		if name == "" && v.Price.Blank() {
			continue
		}
		field := "priceVariations[" + strconv.Itoa(i) + "]"
		if name == "" {
			return domain.MenuItem{}, invalid(field+".name", "Variation name is required")
		}
		price, ok := v.Price.Parse()
		if !ok {
			return domain.MenuItem{}, invalid(field+".price", "Variation price must be a non-negative number")
		}
		item.PriceVariations = append(item.PriceVariations, domain.PriceVariation{Name: name, Price: price})
	}

	if len(item.PriceVariations) > 0 {
		return item, nil
	}

	if d.Price.Blank() {
		return domain.MenuItem{}, invalid("price", "Price is required")
	}
	price, ok := d.Price.Parse()
	if !ok {
		return domain.MenuItem{}, invalid("price", "Price must be a non-negative number")
	}
	item.Price = &price
	return item, nil
}
