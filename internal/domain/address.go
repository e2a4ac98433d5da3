package domain

import "encoding/json"

type Address struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	FullName  string `db:"full_name" json:"fullName"`
	Phone     string `db:"phone_number" json:"phoneNumber"`
	Street    string `db:"street" json:"street"`
	Ward      string `db:"ward" json:"ward"`
	District  string `db:"district" json:"district"`
	City      string `db:"city" json:"city"`
	Country   string `db:"country" json:"country"`
	ZipCode   string `db:"zip_code" json:"zipCode"`
	IsDefault bool   `db:"is_default" json:"isDefault"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Card struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Name      string `db:"card_name"`
	Number    string `db:"card_number"`
	ExpMonth  string `db:"card_exp_month"`
	ExpYear   string `db:"card_exp_year"`
	CVC       string `db:"card_cvc"`
	IsDefault bool   `db:"is_default"`
	CreatedAt string `db:"created_at"`
}

// MaskedNumber keeps only the last four digits.
func (c *Card) MaskedNumber() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	masked := make([]byte, len(c.Number))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(masked)-4:], c.Number[len(c.Number)-4:])
	return string(masked)
}

// MarshalJSON never emits the full number or the CVC.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		UserID    string `json:"user_id"`
		Name      string `json:"card_name"`
		Number    string `json:"card_number"`
		ExpMonth  string `json:"card_exp_month"`
		ExpYear   string `json:"card_exp_year"`
		IsDefault bool   `json:"is_default"`
		CreatedAt string `json:"created_at"`
	}{c.ID, c.UserID, c.Name, c.MaskedNumber(), c.ExpMonth, c.ExpYear, c.IsDefault, c.CreatedAt})
}
