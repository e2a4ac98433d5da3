package domain

import "strings"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryShipping  DeliveryStatus = "Shipping"
	DeliveryDelivered DeliveryStatus = "Delivered"
	DeliveryCancelled DeliveryStatus = "Cancelled"
	DeliveryReturned  DeliveryStatus = "Returned"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:   {DeliveryShipping, DeliveryCancelled},
	DeliveryShipping:  {DeliveryDelivered, DeliveryCancelled},
	DeliveryDelivered: {DeliveryReturned},
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryShipping, DeliveryDelivered, DeliveryCancelled, DeliveryReturned:
		return true
	}
	return false
}

// CanTransition reports whether staff or the customer may move an order from s to next.
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	for _, to := range deliveryTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentCreditCard     = "credit_card"
)

// NormalizePaymentMethod maps accepted spellings onto the canonical method names.
func NormalizePaymentMethod(m string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "cash_on_delivery", "cash on delivery", "cod":
		return PaymentCashOnDelivery, true
	case "credit_card", "credit card":
		return PaymentCreditCard, true
	}
	return "", false
}

// IsCardBased reports whether the method charges a stored card.
func IsCardBased(method string) bool { return method == PaymentCreditCard }

// PurchaseRequest selects what a checkout buys. No ProductIDs means the whole cart.
type PurchaseRequest struct {
	PaymentMethod string
	ProductIDs    []string
}

func (r PurchaseRequest) Selective() bool { return len(r.ProductIDs) > 0 }

func (r PurchaseRequest) Includes(productID string) bool {
	if !r.Selective() {
		return true
	}
	for _, id := range r.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of the product facts at purchase time.
type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Image     string  `db:"image" json:"image"`
	Amount    float64 `db:"amount" json:"amount"`
	Quantity  int     `db:"quantity" json:"quantity"`

	Product *Product `db:"-" json:"product,omitempty"`
}

type Order struct {
	ID                  string         `db:"id" json:"id"`
	UserID              string         `db:"user_id" json:"user_id"`
	TotalAmount         float64        `db:"total_amount" json:"total_amount"`
	ShippingFee         float64        `db:"shipping_fee" json:"shipping_fee"`
	TransactionID       *string        `db:"transaction_id" json:"transaction_id"`
	PaymentMethod       string         `db:"payment_method" json:"payment_method"`
	PaymentStatus       PaymentStatus  `db:"payment_status" json:"payment_status"`
	DeliveryStatus      DeliveryStatus `db:"delivery_status" json:"delivery_status"`
	ShippingAddressID   string         `db:"shipping_address_id" json:"shipping_address_id"`
	WaitingConfirmation bool           `db:"waiting_confirmation" json:"waiting_confirmation"`
	CreatedAt           string         `db:"created_at" json:"created_at"`
	UpdatedAt           string         `db:"updated_at" json:"updated_at"`

	Items   []OrderItem  `db:"-" json:"products"`
	Address *Address     `db:"-" json:"shipping_address,omitempty"`
	User    *UserSummary `db:"-" json:"user,omitempty"`
}

// Deletable reports whether the order is still pending and unconfirmed by staff.
func (o *Order) Deletable() bool {
	return o.DeliveryStatus == DeliveryPending && !o.WaitingConfirmation
}

type OrderFilter struct {
	DeliveryStatus DeliveryStatus
	PaymentStatus  PaymentStatus
	Page           int
	Limit          int
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}
