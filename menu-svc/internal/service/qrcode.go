package service

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(restaurantID string) ([]byte, error)
	MenuURL(restaurantID string) string
}

type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

// MenuURL is the public address encoded into a restaurant's table QR code.
func (g DefaultQRGenerator) MenuURL(restaurantID string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/menu/" + restaurantID + "?src=qr"
}

func (g DefaultQRGenerator) Generate(restaurantID string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.MenuURL(restaurantID), qrcode.Medium, size)
}
