package handlers

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"

	"logineko/internal/utils"
)

// LoadTemplates parses base.tmpl and every page and component under path.
// Pages are executed by file name, e.g. "dashboard.tmpl".
func LoadTemplates(templatesPath string) (*template.Template, error) {
	baseTemplate := filepath.Join(templatesPath, "base.tmpl")

	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}

	files := []string{baseTemplate}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	funcMap := template.FuncMap{
		"formatDate":     utils.FormatDate,
		"formatDateTime": utils.FormatDateTime,
		"formatMinutes":  utils.FormatMinutes,
		"formatSeconds":  utils.FormatSeconds,
		"formatVND":      utils.FormatVND,
		"formatNumber":   utils.FormatNumber,
		"formatPercent":  utils.FormatPercent,
		"difficulty":     utils.DifficultyOf,
		"monthName":      utils.MonthName,
		"toFloat": func(n int) float64 {
			return float64(n)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"queryEscape": url.QueryEscape,
		"selected": func(cur, want int) template.HTMLAttr {
			if cur == want {
				return "selected"
			}
			return ""
		},
		"checked": func(b bool) template.HTMLAttr {
			if b {
				return "checked"
			}
			return ""
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
