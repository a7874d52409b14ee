package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderEmailData is the payload shared by the storefront and the email
// relay. Field names are part of the relay's HTTP contract.
type OrderEmailData struct {
	OrderNumber     string          `json:"orderNumber"`
	OrderDate       time.Time       `json:"orderDate"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []EmailItem     `json:"items"`
	ShippingAddress EmailAddress    `json:"shippingAddress"`
}

type EmailItem struct {
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	VariantColor string          `json:"variant_color,omitempty"`
	VariantSize  string          `json:"variant_size,omitempty"`
}

type EmailAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Result reports which of the two emails the provider accepted.
type Result struct {
	Customer bool `json:"customer"`
	Admin    bool `json:"admin"`
}
