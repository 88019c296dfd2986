package services

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/config"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

const saleConfirmationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Your purchase is confirmed</title>
</head>
<body>
  <p>Hello,</p>
  <p>Your purchase of the property at <strong>%s</strong> has been finalized.</p>
  <p>Total cost: <strong>%.2f</strong></p>
  <p>Your agent will contact you about the paperwork shortly.</p>
  <p>© %d Estate Agency</p>
</body>
</html>`

// Notifier abstracts outbound notifications so the sale flow can be tested
// without touching SendGrid.
type Notifier interface {
	SendSaleConfirmation(toEmail, estateAddress string, costCents int64) error
}

type sendgridNotifier struct {
	cfg    *config.Config
	client *sendgrid.Client
}

func NewSendGridNotifier(cfg *config.Config) Notifier {
	return &sendgridNotifier{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
	}
}

func (n *sendgridNotifier) SendSaleConfirmation(toEmail, estateAddress string, costCents int64) error {
	if n.cfg.SendGridSandboxMode {
		utils.Logger.Infof("Sandbox mode: skipping sale confirmation email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("Estate Agency", n.cfg.SendGridFromEmail)
	to := mail.NewEmail("", toEmail)

	subject := "Your purchase is confirmed"
	costUnits := float64(costCents) / 100
	plainTextContent := fmt.Sprintf(
		"Your purchase of the property at %s has been finalized.\nTotal cost: %.2f",
		estateAddress, costUnits,
	)
	htmlContent := fmt.Sprintf(saleConfirmationEmailHTML, estateAddress, costUnits, time.Now().Year())

	msg := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	_, err := n.client.Send(msg)
	return err
}
