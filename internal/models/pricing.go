package models

import (
	"strconv"
)

// SubscriptionPrice is one premium plan: a price for a number of months.
type SubscriptionPrice struct {
	ID       int64   `json:"id"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"` // months
}

// SubscriptionPriceRequest is the JSON body for create/update.
type SubscriptionPriceRequest struct {
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

// DurationLabel renders the plan length, e.g. "1 month", "12 months".
func (p SubscriptionPrice) DurationLabel() string {
	if p.Duration == 1 {
		return "1 month"
	}
	return strconv.Itoa(p.Duration) + " months"
}

// MonthlyPrice is the price spread over the plan's months.
func (p SubscriptionPrice) MonthlyPrice() float64 {
	if p.Duration <= 0 {
		return p.Price
	}
	return p.Price / float64(p.Duration)
}

// SearchFields returns the values matched by the premium search box.
func (p SubscriptionPrice) SearchFields() []string {
	return []string{
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.DurationLabel(),
		strconv.FormatInt(p.ID, 10),
	}
}
