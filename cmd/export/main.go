package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"logineko/internal/apiclient"
	"logineko/internal/config"
	"logineko/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	output := cmd.String("output", "", "Output file path (default: <what>_YYYYMMDD_HHMMSS.csv, \"-\" for stdout)")
	username := cmd.String("username", os.Getenv("LOGINEKO_USERNAME"), "Admin username (users and prices only)")
	password := cmd.String("password", os.Getenv("LOGINEKO_PASSWORD"), "Admin password")
	token := cmd.String("token", os.Getenv("LOGINEKO_TOKEN"), "Access token, instead of username/password")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	what := os.Args[1]
	switch what {
	case "users", "courses", "prices":
		if err := cmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Invalid flags: %v", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.APITimeout)
	defer cancel()

	api := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
	if what != "courses" {
		tok, err := resolveToken(ctx, api, *token, *username, *password)
		if err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		api = apiclient.New(cfg.APIBaseURL,
			apiclient.WithTimeout(cfg.APITimeout),
			apiclient.WithTokenSource(apiclient.StaticToken(tok)),
		)
	}

	path, err := writeExport(ctx, api, what, *output)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	if path != "" {
		log.Printf("Export complete: %s", path)
	}
}

func resolveToken(ctx context.Context, api *apiclient.Client, token, username, password string) (string, error) {
	if token != "" {
		return token, nil
	}
	if username == "" || password == "" {
		return "", fmt.Errorf("-token or -username and -password are required")
	}
	tok, err := api.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func export(ctx context.Context, api *apiclient.Client, what string, w io.Writer) error {
	switch what {
	case "users":
		accounts, err := api.ListAccounts(ctx)
		if err != nil {
			return err
		}
		log.Printf("Exporting %d users", len(accounts))
		return service.WriteAccountsCSV(w, accounts)
	case "courses":
		courses, err := api.ListCourses(ctx)
		if err != nil {
			return err
		}
		log.Printf("Exporting %d courses", len(courses))
		return service.WriteCoursesCSV(w, courses)
	case "prices":
		prices, err := api.ListSubscriptionPrices(ctx)
		if err != nil {
			return err
		}
		log.Printf("Exporting %d subscription prices", len(prices))
		return service.WritePricesCSV(w, prices)
	}
	return fmt.Errorf("unknown export %q", what)
}

// writeExport writes the CSV to output, or stdout for "-", and returns the
// path written. A file only appears under its final name once the export
// has succeeded.
func writeExport(ctx context.Context, api *apiclient.Client, what, output string) (string, error) {
	if output == "-" {
		return "", export(ctx, api, what, os.Stdout)
	}
	if output == "" {
		output = fmt.Sprintf("%s_%s.csv", what, time.Now().Format("20060102_150405"))
	}

	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to open output: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := export(ctx, api, what, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return output, nil
}

func printUsage() {
	fmt.Println("Logineko Admin Export Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  export users   [options]    Export learner accounts to CSV")
	fmt.Println("  export courses [options]    Export the course catalog to CSV")
	fmt.Println("  export prices  [options]    Export premium subscription prices to CSV")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -output <file>      Output file path, \"-\" for stdout")
	fmt.Println("  -username <name>    Admin username (or LOGINEKO_USERNAME)")
	fmt.Println("  -password <pass>    Admin password (or LOGINEKO_PASSWORD)")
	fmt.Println("  -token <token>      Access token (or LOGINEKO_TOKEN)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  API_BASE_URL    Backend base URL (default: http://localhost:8081)")
	fmt.Println("  API_TIMEOUT     Per-request timeout (default: 30s)")
}
