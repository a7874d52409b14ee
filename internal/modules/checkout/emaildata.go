package checkout

import (
	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/user"
)

// emailData builds the notification payload from persisted records only.
// a may be nil when the address could not be loaded.
func emailData(o *order.Order, u *user.User, a *address.Address) notify.OrderEmailData {
	d := notify.OrderEmailData{
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.CreatedAt,
		CustomerName:  u.FullName,
		CustomerEmail: u.Email,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		Items:         make([]notify.EmailItem, 0, len(o.Items)),
	}
	if d.CustomerName == "" {
		d.CustomerName = "Customer"
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, notify.EmailItem{
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
			VariantColor: it.VariantColor,
			VariantSize:  it.VariantSize,
		})
	}
	if a != nil {
		d.ShippingAddress = notify.EmailAddress{
			FullName:     a.FullName,
			Phone:        a.Phone,
			AddressLine1: a.AddressLine1,
			AddressLine2: a.AddressLine2,
			City:         a.City,
			State:        a.State,
			PostalCode:   a.PostalCode,
			Country:      a.Country,
		}
	}
	return d
}
