package utils

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderPayoutStatementPDF charge la page de relevé du frontend super-admin
// et l'imprime en PDF via Chrome headless.
// frontendURL doit ressembler à: http://localhost:3003/payout-statement
func RenderPayoutStatementPDF(frontendURL, driverID, from, to string) ([]byte, error) {
	q := url.Values{}
	q.Set("driver", driverID)
	q.Set("from", from)
	q.Set("to", to)

	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// GetPayoutStatementBaseURL retourne l'URL de la page de relevé côté admin
func GetPayoutStatementBaseURL() string {
	base := os.Getenv("ADMIN_FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3003"
	}
	return base + "/payout-statement"
}
