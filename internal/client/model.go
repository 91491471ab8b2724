package client

import (
	"strings"
	"time"
)

// DateLayout is the dd/MM/yyyy text form used for every stored date.
const DateLayout = "02/01/2006"

// Category is a membership tier. Known tiers carry a discount; any other
// value is accepted and priced at full rate.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
)

var discounts = map[Category]int{
	CategoryA: 0,
	CategoryB: 10,
	CategoryC: 20,
	CategoryD: 30,
}

func (c Category) DiscountPercent() int {
	return discounts[c]
}

// NormalizeCategory keeps the first letter of s, upper-cased.
func NormalizeCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return Category(strings.ToUpper(s[:1]))
}

type Client struct {
	Number     string   `db:"number" json:"number"`
	NationalID string   `db:"national_id" json:"national_id"`
	Name       string   `db:"name" json:"name"`
	BirthDate  string   `db:"birth_date" json:"birth_date"`
	Phone      string   `db:"phone" json:"phone,omitempty"`
	Email      string   `db:"email" json:"email,omitempty"`
	StartDate  string   `db:"start_date" json:"start_date"`
	Category   Category `db:"category" json:"category"`
}

// BirthYear returns the year of the stored birth date, or false when the
// date is missing or not in DateLayout.
func (c Client) BirthYear() (int, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(c.BirthDate))
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

type RegisterClientRequest struct {
	Number     string `json:"number"`
	NationalID string `json:"national_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	BirthDate  string `json:"birth_date" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	StartDate  string `json:"start_date"`
	Category   string `json:"category" binding:"required"`
}
