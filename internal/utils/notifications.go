package utils

import (
	"fmt"

	"miam_back_end/internal/models"
)

// SendOrderStatusEmail envoie au client l'email de changement de statut
func SendOrderStatusEmail(userEmail, orderNumber string, newStatus models.OrderStatus, reason string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(orderNumber, newStatus, reason)
	return SendEmail(userEmail, subject, html, nil)
}

func getStatusEmailSubject(status models.OrderStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "✅ Commande acceptée par le restaurant - Miam"
	case models.StatusPreparing:
		return "👨‍🍳 Votre commande est en préparation - Miam"
	case models.StatusReady:
		return "🛍️ Votre commande est prête - Miam"
	case models.StatusPickedUp:
		return "🛵 Votre livreur est parti du restaurant - Miam"
	case models.StatusDelivering:
		return "🚀 Votre commande arrive - Miam"
	case models.StatusDelivered:
		return "🎉 Votre commande a été livrée - Miam"
	case models.StatusCancelled:
		return "❌ Commande annulée - Miam"
	default:
		return "📋 Mise à jour de votre commande - Miam"
	}
}

func getStatusMessage(status models.OrderStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "Le restaurant a accepté votre commande."
	case models.StatusPreparing:
		return "Vos plats sont en préparation en cuisine."
	case models.StatusReady:
		return "Votre commande est prête et attend son livreur."
	case models.StatusPickedUp:
		return "Votre livreur a récupéré la commande au restaurant."
	case models.StatusDelivering:
		return "Votre livreur est en route vers vous."
	case models.StatusDelivered:
		return "Votre commande a été livrée. Bon appétit !"
	case models.StatusCancelled:
		return "Votre commande a été annulée."
	default:
		return "Le statut de votre commande a changé."
	}
}

func getStatusColor(status models.OrderStatus) string {
	switch status {
	case models.StatusDelivered:
		return "#22c55e"
	case models.StatusCancelled:
		return "#ef4444"
	default:
		return "#f97316"
	}
}

func generateStatusEmailHTML(orderNumber string, status models.OrderStatus, reason string) string {
	reasonHTML := ""
	if status == models.StatusCancelled && reason != "" {
		reasonHTML = fmt.Sprintf(`<p style="color: #666; font-style: italic;">Motif : %s</p>`, reason)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Mise à jour de commande</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px; padding: 30px;">
		<h1 style="margin: 0 0 10px 0; color: #1f2937; font-size: 24px;">Miam 🍔</h1>
		<p style="color: #6b7280;">Commande <strong>%s</strong></p>
		<div style="display: inline-block; padding: 12px 24px; background-color: %s; color: #ffffff; border-radius: 25px; font-weight: 600; font-size: 14px; text-transform: uppercase;">
			%s
		</div>
		<p style="margin-top: 20px; color: #374151;">%s</p>
		%s
		<p style="margin-top: 30px; color: #9ca3af; font-size: 13px;">
			Suivez votre commande en temps réel depuis l'application Miam.
		</p>
	</div>
</body>
</html>`, orderNumber, getStatusColor(status), status, getStatusMessage(status), reasonHTML)
}
