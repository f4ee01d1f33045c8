package libs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"veggie-shop/models"
)

var orderConfirmationTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #16a34a; text-align: center; }
        .order-box { background-color: #f0fdf4; padding: 20px; margin: 20px 0; border-radius: 8px; }
        td { padding: 4px 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">FreshCut Veggies</div>
        <h2>Order Confirmation</h2>
        <p>Hi {{.DeliveryAddress.FirstName}}, thank you for your order!</p>
        <div class="order-box">
            <p><strong>Order:</strong> {{.ID}}</p>
            <table>
                {{range .OrderItems}}<tr><td>{{if .Product}}{{.Product.Name}}{{else}}{{.ProductID}}{{end}}{{if .CutStyle}} ({{.CutStyle}}){{end}}</td><td>x{{.Quantity}}</td><td>&#8377;{{.Price.StringFixed 2}}</td></tr>
                {{end}}
            </table>
            <p>Subtotal: &#8377;{{.Subtotal.StringFixed 2}}<br>
               Tax: &#8377;{{.TaxAmount.StringFixed 2}}<br>
               Delivery: &#8377;{{.DeliveryFee.StringFixed 2}}<br>
               <strong>Total: &#8377;{{.TotalAmount.StringFixed 2}}</strong></p>
            <p><strong>Deliver to:</strong> {{.DeliveryAddress.Street}}, {{.DeliveryAddress.City}}, {{.DeliveryAddress.State}} {{.DeliveryAddress.PinCode}}{{if .DeliverySlot}}<br><strong>Slot:</strong> {{.DeliverySlot}}{{end}}</p>
        </div>
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`))

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) (*Mailer, error) {
	if host == "" || user == "" || pass == "" {
		return nil, errors.New("SMTP configuration missing")
	}
	if from == "" {
		from = user
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}, nil
}

func RenderOrderConfirmation(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("render order confirmation: %w", err)
	}
	return buf.String(), nil
}

func (m *Mailer) SendOrderConfirmation(_ context.Context, to string, order *models.Order) error {
	body, err := RenderOrderConfirmation(order)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Order Confirmation - FreshCut Veggies")
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
