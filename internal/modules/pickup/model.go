// README: Pickup booking request and confirmation.
package pickup

import (
	"time"

	"github.com/shopspring/decimal"
)

type Request struct {
	ShipperName      string          `json:"shipper_name"`
	ShipperAddress   string          `json:"shipper_address"`
	ShipperPincode   string          `json:"shipper_pincode"`
	ShipperPhone     string          `json:"shipper_phone"`
	RecipientName    string          `json:"recipient_name"`
	RecipientAddress string          `json:"recipient_address"`
	RecipientPincode string          `json:"recipient_pincode"`
	Description      string          `json:"description"`
	Weight           decimal.Decimal `json:"weight"`
	// Date is the preferred pickup day, YYYY-MM-DD.
	Date string `json:"date"`
}

type Confirmation struct {
	Reference string    `json:"reference"`
	Date      time.Time `json:"date"`
	Message   string    `json:"message"`
}
