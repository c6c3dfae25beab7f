package utils

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// TicketQR renders the ticket code as a 256px PNG and returns it base64
// encoded for direct embedding in a data URL.
func TicketQR(code string) (string, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
