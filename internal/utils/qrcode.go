package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GeneratePickupQR génère le QR de retrait présenté par le restaurant au
// livreur, en base64 prêt à mettre dans <img src="...">.
// Le payload porte le numéro de commande pour vérification visuelle côté app.
func GeneratePickupQR(orderID, orderNumber string) (string, error) {
	payload := fmt.Sprintf("miam:pickup:%s:%s", orderID, orderNumber)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
