package service

import (
	"context"
	"sort"

	"logineko/internal/apiclient"
	"logineko/internal/models"
)

// AccountService lists learner accounts.
type AccountService struct {
	api *apiclient.Client
}

// NewAccountService creates a new account service
func NewAccountService(api *apiclient.Client) *AccountService {
	return &AccountService{api: api}
}

// List fetches all accounts ordered by id and applies the search query.
func (s *AccountService) List(ctx context.Context, query string) View[[]models.Account] {
	v := Load(ctx, "users", s.api.ListAccounts)
	sort.SliceStable(v.Data, func(i, j int) bool { return v.Data[i].ID < v.Data[j].ID })
	v.Data = Filter(v.Data, query)
	return v
}

// PremiumCount counts premium accounts.
func PremiumCount(accounts []models.Account) int {
	n := 0
	for _, a := range accounts {
		if a.Premium {
			n++
		}
	}
	return n
}
