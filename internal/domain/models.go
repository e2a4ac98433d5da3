package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"campgo/internal/pricing"
)

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

// Image is a hosted media asset; PublicID is the handle used to delete it.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Images is stored as a JSON array in a single TEXT column.
type Images []Image

func (im Images) Value() (driver.Value, error) { return jsonValue(im) }

func (im *Images) Scan(src any) error { return jsonScan(src, im) }

// StringList is stored as a JSON array in a single TEXT column.
type StringList []string

func (s StringList) Value() (driver.Value, error) { return jsonValue(s) }

func (s *StringList) Scan(src any) error { return jsonScan(src, s) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category_id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Brand       string  `db:"brand" json:"brand,omitempty"`
	Price       float64 `db:"price" json:"price"`
	Discount    float64 `db:"discount" json:"discount"` // percent, 0..100
	Stock       int     `db:"stock_quantity" json:"stock_quantity"`
	Sold        int     `db:"sold" json:"sold"`
	Images      Images  `db:"images_json" json:"images"`
	Active      bool    `db:"active" json:"active"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at,omitempty"`
}

// DiscountedPrice is the unit price charged when the product is added to a cart.
func (p *Product) DiscountedPrice() float64 {
	return pricing.AfterDiscount(p.Price, p.Discount)
}

// MainImage is the first image URL, or "" when the product has none.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

func (p *Product) Availability() Availability {
	switch {
	case p.Stock >= 5:
		return Availability{Status: "IN_STOCK", Qty: p.Stock}
	case p.Stock > 0:
		return Availability{Status: "LOW_STOCK", Qty: p.Stock}
	default:
		return Availability{Status: "OUT_OF_STOCK"}
	}
}

// ProductView is the catalog projection with both prices.
type ProductView struct {
	*Product
	DiscountedPrice float64      `json:"discounted_price"`
	Availability    Availability `json:"availability"`
}

func (p *Product) View() ProductView {
	return ProductView{Product: p, DiscountedPrice: p.DiscountedPrice(), Availability: p.Availability()}
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

type Review struct {
	ID        string     `db:"id" json:"id"`
	ProductID string     `db:"product_id" json:"product_id"`
	UserID    string     `db:"user_id" json:"user_id"`
	UserName  string     `db:"user_name" json:"user_name,omitempty"`
	Rating    int        `db:"rating" json:"rating"`
	Comment   string     `db:"comment" json:"comment"`
	Images    StringList `db:"images_json" json:"images"`
	CreatedAt string     `db:"created_at" json:"created_at"`
}

type ReviewSummary struct {
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
	Reviews       []Review `json:"reviews"`
}

type Campsite struct {
	ID            string  `db:"id" json:"id"`
	OwnerID       string  `db:"owner_id" json:"owner_id"`
	Name          string  `db:"name" json:"name"`
	Location      string  `db:"location" json:"location"`
	Description   string  `db:"description" json:"description"`
	PricePerNight float64 `db:"price_per_night" json:"price_per_night"`
	Capacity      int     `db:"capacity" json:"capacity"`
	Images        Images  `db:"images_json" json:"images"`
	Active        bool    `db:"active" json:"active"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

type DashboardStats struct {
	TotalRevenue       float64       `json:"totalRevenue"`
	TotalUsers         int           `json:"totalUsers"`
	TotalProducts      int           `json:"totalProducts"`
	TotalCampsites     int           `json:"totalCampsites"`
	MonthlyStats       []MonthlyStat `json:"monthlyStats"`
	OrderStatusStats   []CountBy     `json:"orderStatusStats"`
	PaymentMethodStats []CountBy     `json:"paymentMethodStats"`
}

type MonthlyStat struct {
	Month string  `db:"month" json:"month"` // YYYY-MM
	Total float64 `db:"total" json:"total"`
	Count int     `db:"count" json:"count"`
}

type CountBy struct {
	Key   string `db:"key" json:"_id"`
	Count int    `db:"count" json:"count"`
}
