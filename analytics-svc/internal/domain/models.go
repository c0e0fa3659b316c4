package domain

import "errors"

const DateLayout = "2006-01-02"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrForbidden          = errors.New("not your restaurant")
)

type ScanPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RestaurantStats is the counter part of a restaurant document.
type RestaurantStats struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"ownerId"`
	Name       string      `json:"name"`
	QRScans    int         `json:"qrScans"`
	MenuViews  int         `json:"menuViews"`
	DailyScans []ScanPoint `json:"dailyScans"`
}

type Summary struct {
	RestaurantID string `json:"restaurantId"`
	QRScans      int    `json:"qrScans"`
	MenuViews    int    `json:"menuViews"`
	Today        int    `json:"today"`
	Last7Days    int    `json:"last7Days"`
}

type TopRestaurant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	QRScans   int    `json:"qrScans"`
	MenuViews int    `json:"menuViews"`
}
