package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"logineko/internal/models"
)

// WriteAccountsCSV writes one row per account with a header row.
func WriteAccountsCSV(w io.Writer, accounts []models.Account) error {
	rows := make([][]string, 0, len(accounts)+1)
	rows = append(rows, []string{"id", "username", "full_name", "email", "plan", "total_star", "date_of_birth"})
	for _, a := range accounts {
		dob := ""
		if a.DateOfBirth != nil {
			dob = *a.DateOfBirth
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10), a.Username, a.FullName, a.Email,
			a.PlanLabel(), strconv.Itoa(a.TotalStar), dob,
		})
	}
	return writeCSV(w, rows)
}

// WriteCoursesCSV writes one row per course with a header row.
func WriteCoursesCSV(w io.Writer, courses []models.Course) error {
	rows := make([][]string, 0, len(courses)+1)
	rows = append(rows, []string{"id", "name", "description", "lessons", "price", "premium", "active", "star"})
	for _, c := range courses {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10), c.Name, c.Description, strconv.Itoa(c.TotalLesson),
			strconv.FormatFloat(c.Price, 'f', -1, 64), strconv.FormatBool(c.IsPremium),
			strconv.FormatBool(c.IsActive), strconv.FormatFloat(c.Star, 'f', 1, 64),
		})
	}
	return writeCSV(w, rows)
}

// WritePricesCSV writes one row per subscription plan with a header row.
func WritePricesCSV(w io.Writer, prices []models.SubscriptionPrice) error {
	rows := make([][]string, 0, len(prices)+1)
	rows = append(rows, []string{"id", "price", "duration_months", "monthly_price"})
	for _, p := range prices {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10), strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.Itoa(p.Duration), strconv.FormatFloat(p.MonthlyPrice(), 'f', 0, 64),
		})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
