// scripts/gcal-auth/main.go
//
// Authorizes the due-date calendar mirror once and writes the OAuth token
// that google_calendar.token_path points at. Service-account credentials do
// not need this step.
//
// Usage:
//   go run ./scripts/gcal-auth [credentials.json] [token.json]

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

func main() {
	credsPath := argOr(1, "google-credentials.json")
	tokenPath := argOr(2, "token.json")

	data, err := os.ReadFile(credsPath)
	if err != nil {
		log.Fatalf("read credentials file %q: %v", credsPath, err)
	}

	config, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		log.Fatalf("parse credentials: %v\n%q must be an OAuth desktop-app credentials file.", err, credsPath)
	}

	authURL := config.AuthCodeURL("todosync", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Println("1. Open this URL and grant calendar access:")
	fmt.Println()
	fmt.Println("   " + authURL)
	fmt.Println()
	fmt.Print("2. Paste the authorization code here: ")

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && code == "" {
		log.Fatalf("read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.Background(), strings.TrimSpace(code))
	if err != nil {
		log.Fatalf("exchange authorization code: %v", err)
	}

	f, err := os.OpenFile(tokenPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		log.Fatalf("create %s: %v", tokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		log.Fatalf("write %s: %v", tokenPath, err)
	}

	fmt.Printf("\nToken saved to %s. Set google_calendar.token_path to it and run todosync sync.\n", tokenPath)
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i && os.Args[i] != "" {
		return os.Args[i]
	}
	return fallback
}
