package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

// NewClientFromCredentialsFile creates a Calendar client from a credentials JSON file path.
// tokenPath is only consulted for OAuth desktop-app credentials.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data, tokenPath)
}

// NewClientFromCredentialsJSON creates a Calendar client from raw credentials JSON bytes.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	// Service account first
	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err == nil {
		svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
		if svcErr != nil {
			return nil, fmt.Errorf("failed to create calendar service: %w", svcErr)
		}
		return &Client{service: svc}, nil
	}

	var oauthCreds struct {
		Installed *struct {
			ClientID     string   `json:"client_id"`
			ClientSecret string   `json:"client_secret"`
			RedirectURIs []string `json:"redirect_uris"`
		} `json:"installed"`
	}
	if jsonErr := json.Unmarshal(credentialsJSON, &oauthCreds); jsonErr != nil || oauthCreds.Installed == nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     oauthCreds.Installed.ClientID,
		ClientSecret: oauthCreds.Installed.ClientSecret,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	if tokenPath == "" {
		tokenPath = "token.json"
	}
	tokenData, tokenErr := os.ReadFile(tokenPath)
	if tokenErr != nil {
		return nil, fmt.Errorf("oauth desktop credentials need a token file at %s (run scripts/gcal-auth): %w", tokenPath, tokenErr)
	}

	var tok oauth2.Token
	if jsonErr := json.Unmarshal(tokenData, &tok); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", jsonErr)
	}

	svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, &tok)))
	if svcErr != nil {
		return nil, fmt.Errorf("failed to create calendar service from OAuth token: %w", svcErr)
	}

	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// UpsertAllDayEvent updates the event with req.EventID, inserting it when it does not exist yet.
func (c *Client) UpsertAllDayEvent(ctx context.Context, req AllDayEventRequest) (*Event, error) {
	calendarID := calendarOrDefault(req.CalendarID)
	event := &calendar.Event{
		Id:           req.EventID,
		Summary:      req.Summary,
		Description:  req.Description,
		Start:        &calendar.EventDateTime{Date: req.StartDate},
		End:          &calendar.EventDateTime{Date: req.EndDate},
		Transparency: "transparent",
	}

	updated, err := c.service.Events.Update(calendarID, req.EventID, event).Context(ctx).Do()
	if err == nil {
		return toEvent(updated), nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to update calendar event: %w", err)
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return toEvent(created), nil
}

// DeleteEvent removes an event. A missing event returns ErrNotFound.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.service.Events.Delete(calendarOrDefault(calendarID), eventID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to delete calendar event: %w", err)
}

func toEvent(e *calendar.Event) *Event {
	out := &Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		HtmlLink:    e.HtmlLink,
	}
	if e.Start != nil {
		out.StartDate = e.Start.Date
	}
	if e.End != nil {
		out.EndDate = e.End.Date
	}
	return out
}

func calendarOrDefault(id string) string {
	if id == "" {
		return DefaultCalendarID
	}
	return id
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}
