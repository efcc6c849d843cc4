package service

import (
	"context"
	"sort"

	"logineko/internal/apiclient"
	"logineko/internal/models"
	"logineko/internal/validation"
)

// PricingService manages premium subscription plans.
type PricingService struct {
	api *apiclient.Client
}

// NewPricingService creates a new pricing service
func NewPricingService(api *apiclient.Client) *PricingService {
	return &PricingService{api: api}
}

// List fetches the plans, shortest first, and applies the search query.
func (s *PricingService) List(ctx context.Context, query string) View[[]models.SubscriptionPrice] {
	v := Load(ctx, "subscription prices", s.api.ListSubscriptionPrices)
	sort.SliceStable(v.Data, func(i, j int) bool {
		if v.Data[i].Duration != v.Data[j].Duration {
			return v.Data[i].Duration < v.Data[j].Duration
		}
		return v.Data[i].Price < v.Data[j].Price
	})
	v.Data = Filter(v.Data, query)
	return v
}

func (s *PricingService) Create(ctx context.Context, form validation.PriceForm) (*models.SubscriptionPrice, error) {
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.CreateSubscriptionPrice(ctx, models.SubscriptionPriceRequest{Price: form.Price, Duration: form.Duration})
}

func (s *PricingService) Update(ctx context.Context, id int64, form validation.PriceForm) (*models.SubscriptionPrice, error) {
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.UpdateSubscriptionPrice(ctx, id, models.SubscriptionPriceRequest{Price: form.Price, Duration: form.Duration})
}

func (s *PricingService) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteSubscriptionPrice(ctx, id)
}
