package mailer

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
)

type lineView struct {
	notify.EmailItem
	Unit  string
	Total string
}

type emailView struct {
	notify.OrderEmailData
	Brand       string
	SiteURL     string
	Date        string
	Total       string
	MethodLabel string
	StatusLabel string
	StatusColor string
	Lines       []lineView
}

func newView(d notify.OrderEmailData, brand, siteURL string) emailView {
	v := emailView{
		OrderEmailData: d,
		Brand:          brand,
		SiteURL:        strings.TrimRight(siteURL, "/"),
		Date:           FormatDate(d.OrderDate),
		Total:          FormatINR(d.TotalAmount),
		MethodLabel:    "UPI Payment",
		StatusLabel:    strings.ToUpper(d.PaymentStatus),
		StatusColor:    "#ffc107",
	}
	if d.PaymentMethod == "cod" {
		v.MethodLabel = "Cash on Delivery"
	}
	if d.PaymentStatus == "submitted" {
		v.StatusColor = "#28a745"
	}
	for _, it := range d.Items {
		v.Lines = append(v.Lines, lineView{EmailItem: it, Unit: FormatINR(it.UnitPrice), Total: FormatINR(it.TotalPrice)})
	}
	return v
}

func render(t *template.Template, v emailView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var customerTmpl = template.Must(template.New("customer").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">
    <div style="background: linear-gradient(135deg, #ec4899 0%, #f43f5e 100%); padding: 30px; text-align: center;">
      <h1 style="color: #ffffff; margin: 0; font-size: 28px;">{{.Brand}}</h1>
      <p style="color: rgba(255,255,255,0.9); margin: 10px 0 0 0;">Order Confirmation</p>
    </div>
    <div style="padding: 30px;">
      <div style="text-align: center; margin-bottom: 30px;">
        <h2 style="color: #333; margin: 15px 0 10px 0;">Thank You, {{.CustomerName}}!</h2>
        <p style="color: #666; margin: 0;">Your order has been confirmed.</p>
      </div>
      <table style="width: 100%; border-collapse: collapse; background-color: #f8f8f8; margin-bottom: 25px;">
        <tr><td style="padding: 8px 12px; color: #666;">Order Number:</td><td style="padding: 8px 12px; text-align: right; font-weight: bold;">#{{.OrderNumber}}</td></tr>
        <tr><td style="padding: 8px 12px; color: #666;">Order Date:</td><td style="padding: 8px 12px; text-align: right;">{{.Date}}</td></tr>
        <tr><td style="padding: 8px 12px; color: #666;">Payment Method:</td><td style="padding: 8px 12px; text-align: right;">{{.MethodLabel}}</td></tr>
      </table>
      <h3 style="color: #333; border-bottom: 2px solid #ec4899; padding-bottom: 10px;">Order Items</h3>
      <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
        <thead>
          <tr style="background-color: #f8f8f8;">
            <th style="padding: 12px; text-align: left; color: #666;">Product</th>
            <th style="padding: 12px; text-align: center; color: #666;">Qty</th>
            <th style="padding: 12px; text-align: right; color: #666;">Price</th>
          </tr>
        </thead>
        <tbody>
        {{- range .Lines}}
          <tr>
            <td style="padding: 12px; border-bottom: 1px solid #eee;">
              {{.ProductName}}
              {{- if .VariantColor}}<br><small style="color: #666;">Color: {{.VariantColor}}</small>{{end}}
              {{- if .VariantSize}}<br><small style="color: #666;">Size: {{.VariantSize}}</small>{{end}}
            </td>
            <td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{.Total}}</td>
          </tr>
        {{- end}}
        </tbody>
        <tfoot>
          <tr>
            <td colspan="2" style="padding: 15px 12px; text-align: right; font-weight: bold; font-size: 18px;">Total:</td>
            <td style="padding: 15px 12px; text-align: right; font-weight: bold; font-size: 18px; color: #ec4899;">{{.Total}}</td>
          </tr>
        </tfoot>
      </table>
      <h3 style="color: #333; border-bottom: 2px solid #ec4899; padding-bottom: 10px;">Shipping Address</h3>
      {{- with .ShippingAddress}}
      <p style="background-color: #f8f8f8; padding: 20px; margin: 0 0 25px 0; line-height: 1.6;">
        <strong>{{.FullName}}</strong><br>
        {{.AddressLine1}}<br>
        {{- if .AddressLine2}}{{.AddressLine2}}<br>{{end}}
        {{.City}}, {{.State}} - {{.PostalCode}}<br>
        {{.Country}}<br>
        <strong>Phone:</strong> {{.Phone}}
      </p>
      {{- end}}
      <div style="background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin-bottom: 25px;">
        <p style="margin: 0; color: #856404;">
          <strong>What's Next?</strong><br>
          Once payment is verified by {{.Brand}}, we will dispatch your order to your address.
        </p>
      </div>
    </div>
    <div style="background-color: #333; color: #fff; padding: 25px; text-align: center;">
      <p style="margin: 0 0 10px 0; font-size: 18px; font-weight: bold;">{{.Brand}}</p>
      <p style="margin: 0; color: rgba(255,255,255,0.7); font-size: 14px;">
        Thank you for shopping with us!<br>
        <a href="{{.SiteURL}}" style="color: #ec4899;">{{.SiteURL}}</a>
      </p>
    </div>
  </div>
</body>
</html>`))

var adminTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f5f5f5;">
  <div style="max-width: 700px; margin: 0 auto; background-color: #ffffff;">
    <div style="background-color: #1a1a2e; padding: 20px; text-align: center;">
      <h1 style="color: #ffffff; margin: 0;">🛒 New Order Received</h1>
    </div>
    <div style="padding: 25px;">
      <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
        <tr><td style="padding: 10px; font-weight: bold;">Order Number:</td><td style="padding: 10px; font-size: 18px; color: #ec4899;">#{{.OrderNumber}}</td></tr>
        <tr><td style="padding: 10px;">Order Date:</td><td style="padding: 10px;">{{.Date}}</td></tr>
        <tr><td style="padding: 10px;">Payment Method:</td><td style="padding: 10px;">{{.MethodLabel}}</td></tr>
        <tr>
          <td style="padding: 10px;">Payment Status:</td>
          <td style="padding: 10px;"><span style="background-color: {{.StatusColor}}; color: #fff; padding: 4px 10px; font-size: 12px;">{{.StatusLabel}}</span></td>
        </tr>
        <tr><td style="padding: 10px; font-weight: bold;">Total Amount:</td><td style="padding: 10px; font-size: 20px; font-weight: bold; color: #28a745;">{{.Total}}</td></tr>
      </table>
      <h3 style="border-bottom: 2px solid #1a1a2e; padding-bottom: 10px;">Customer Information</h3>
      <table style="width: 100%; margin-bottom: 20px;">
        <tr><td style="padding: 8px 0;"><strong>Name:</strong></td><td>{{.CustomerName}}</td></tr>
        <tr><td style="padding: 8px 0;"><strong>Email:</strong></td><td><a href="mailto:{{.CustomerEmail}}">{{.CustomerEmail}}</a></td></tr>
        <tr><td style="padding: 8px 0;"><strong>Phone:</strong></td><td>{{.ShippingAddress.Phone}}</td></tr>
      </table>
      <h3 style="border-bottom: 2px solid #1a1a2e; padding-bottom: 10px;">Shipping Address</h3>
      {{- with .ShippingAddress}}
      <p style="background-color: #f8f8f8; padding: 15px; margin: 0 0 20px 0; line-height: 1.6;">
        {{.FullName}}<br>
        {{.AddressLine1}}<br>
        {{- if .AddressLine2}}{{.AddressLine2}}<br>{{end}}
        {{.City}}, {{.State}} - {{.PostalCode}}<br>
        {{.Country}}
      </p>
      {{- end}}
      <h3 style="border-bottom: 2px solid #1a1a2e; padding-bottom: 10px;">Order Items</h3>
      <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
        <thead>
          <tr style="background-color: #1a1a2e; color: #fff;">
            <th style="padding: 12px; text-align: left;">Product</th>
            <th style="padding: 12px; text-align: center;">Variant</th>
            <th style="padding: 12px; text-align: center;">Qty</th>
            <th style="padding: 12px; text-align: right;">Unit Price</th>
            <th style="padding: 12px; text-align: right;">Total</th>
          </tr>
        </thead>
        <tbody>
        {{- range .Lines}}
          <tr>
            <td style="padding: 10px; border: 1px solid #ddd;">{{.ProductName}}</td>
            <td style="padding: 10px; border: 1px solid #ddd; text-align: center;">{{or .VariantColor "-"}} / {{or .VariantSize "-"}}</td>
            <td style="padding: 10px; border: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 10px; border: 1px solid #ddd; text-align: right;">{{.Unit}}</td>
            <td style="padding: 10px; border: 1px solid #ddd; text-align: right;">{{.Total}}</td>
          </tr>
        {{- end}}
        </tbody>
      </table>
      <div style="text-align: center; margin-top: 30px;">
        <a href="{{.SiteURL}}/admin/orders" style="display: inline-block; background-color: #ec4899; color: #fff; padding: 15px 30px; text-decoration: none; font-weight: bold;">View Order in Admin Panel</a>
      </div>
    </div>
  </div>
</body>
</html>`))
