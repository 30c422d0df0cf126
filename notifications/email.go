package notifications

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// Emailer sends order confirmation mail through SendGrid. It is a
// best-effort sink: callers log failures and move on.
type Emailer struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailer(cfg config.Mail) *Emailer {
	return &Emailer{
		apiKey:   os.Getenv("SENDGRID_API_KEY"),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (e *Emailer) SendOrderConfirmation(trn models.Transaction) error {
	if e.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if trn.User.Email == "" {
		return fmt.Errorf("transaction %s has no recipient email", trn.TxRef)
	}

	subject := fmt.Sprintf("Order confirmed: %s", trn.TxRef)
	body := orderSummary(trn)

	message := mail.NewSingleEmail(
		mail.NewEmail(e.fromName, e.from),
		subject,
		mail.NewEmail(strings.TrimSpace(trn.User.FirstName+" "+trn.User.LastName), trn.User.Email),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	client := sendgrid.NewSendClient(e.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}
	return nil
}

func orderSummary(trn models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order.\n\nReference: %s\n\n", trn.TxRef)
	for _, item := range trn.OrderItems {
		line := fmt.Sprintf("%dx %s", item.Quantity, item.Product.Name)
		if item.Size != "" {
			line += " / " + item.Size
		}
		if item.Color != "" {
			line += " / " + item.Color
		}
		fmt.Fprintf(&b, "  %s @ %s\n", line, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal charged: %s\n", trn.Amount.StringFixed(2))
	if trn.ShipStreet != "" {
		fmt.Fprintf(&b, "\nShipping to:\n  %s\n  %s, %s %s\n  %s\n",
			trn.ShipStreet, trn.ShipCity, trn.ShipState, trn.ShipPostalCode, trn.ShipCountry)
	}
	return b.String()
}
