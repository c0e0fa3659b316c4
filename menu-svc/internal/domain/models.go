package domain

import (
	"errors"
	"strconv"
	"time"
)

const DefaultCurrencySymbol = "₹"

// MaxDailyScans is how many per-day scan records a restaurant keeps.
const MaxDailyScans = 30

type Restaurant struct {
	ID             string        `json:"id"`
	OwnerID        string        `json:"ownerId"`
	Name           string        `json:"name"`
	Location       string        `json:"location"`
	Contact        string        `json:"contact"`
	Description    string        `json:"description"`
	Email          string        `json:"email"`
	IsPublic       bool          `json:"isPublic"`
	IsBlocked      bool          `json:"isBlocked"`
	CreatedAt      time.Time     `json:"createdAt"`
	MenuSections   []MenuSection `json:"menuSections"`
	CurrencySymbol string        `json:"currencySymbol,omitempty"`
	QRScans        int           `json:"qrScans"`
	MenuViews      int           `json:"menuViews"`
	DailyScans     []DailyScan   `json:"dailyScans"`
	Theme          Theme         `json:"theme"`
}

func (r *Restaurant) EffectiveCurrency() string {
	if r.CurrencySymbol == "" {
		return DefaultCurrencySymbol
	}
	return r.CurrencySymbol
}

type MenuSection struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	IsDisabled          bool       `json:"isDisabled"`
	Items               []MenuItem `json:"items"`
	VariationCategories []string   `json:"variationCategories,omitempty"`
}

func (s MenuSection) GetID() string { return s.ID }

type ItemStatus string

const (
	StatusActive     ItemStatus = "active"
	StatusDisabled   ItemStatus = "disabled"
	StatusOutOfStock ItemStatus = "outOfStock"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusActive, StatusDisabled, StatusOutOfStock:
		return true
	}
	return false
}

type MenuItem struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           *float64         `json:"price,omitempty"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	IsDisabled      bool             `json:"isDisabled"`
	OutOfStock      bool             `json:"outOfStock"`
	PriceVariations []PriceVariation `json:"priceVariations,omitempty"`
}

func (i MenuItem) GetID() string { return i.ID }

// Status collapses the two storage flags. Disabled wins when both are set.
func (i MenuItem) Status() ItemStatus {
	switch {
	case i.IsDisabled:
		return StatusDisabled
	case i.OutOfStock:
		return StatusOutOfStock
	default:
		return StatusActive
	}
}

// DisplayPrice is the single price shown where only one fits: the first
// variation's price with a "+" suffix, else a positive base price, else "".
func (i MenuItem) DisplayPrice(currency string) string {
	if len(i.PriceVariations) > 0 {
		return FormatPrice(currency, i.PriceVariations[0].Price) + "+"
	}
	if i.Price != nil && *i.Price > 0 {
		return FormatPrice(currency, *i.Price)
	}
	return ""
}

type PriceVariation struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type DailyScan struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Theme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	AccentColor     string `json:"accentColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	CardStyle       string `json:"cardStyle,omitempty"`
	Layout          string `json:"layout,omitempty"`
}

// ScanEvent is published whenever a public menu is opened.
type ScanEvent struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	Source       string    `json:"source"`
	Timestamp    time.Time `json:"timestamp"`
}

const ScanEventType = "menu_scanned"

func FormatPrice(currency string, price float64) string {
	return currency + strconv.FormatFloat(price, 'f', -1, 64)
}

func Float(v float64) *float64 { return &v }

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantExists   = errors.New("restaurant already registered for this account")
)

// RestaurantFilter narrows an admin listing. Nil flags match both values.
type RestaurantFilter struct {
	Public  *bool
	Blocked *bool
	Search  string
	Limit   int
	Offset  int
}
