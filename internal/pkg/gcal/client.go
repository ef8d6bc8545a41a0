// Package gcal imports read-only events from a linked Google Calendar
// and normalizes them into the common event shape.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/studyhub/studyhub-backend/internal/config"
	"github.com/studyhub/studyhub-backend/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// IDPrefix tags imported events. The prefix is the sole authority for
// the "not editable, open externally" permission check.
const IDPrefix = "gcal_"

type Client struct {
	conf *oauth2.Config
}

type clientSecrets map[string]creds

type creds struct {
	ClientId     string   `json:"client_id"`
	ProjectId    string   `json:"project_id"`
	AuthUri      string   `json:"auth_uri"`
	TokenUri     string   `json:"token_uri"`
	ClientSecret string   `json:"client_secret"`
	RedirectUris []string `json:"redirect_uris"`
}

func NewClient() (*Client, error) {
	file, err := os.Open(config.ClientSecretPath())
	if err != nil {
		return nil, fmt.Errorf("can't open client secret: %w", err)
	}
	defer file.Close()

	cs := make(clientSecrets)
	if err := json.NewDecoder(file).Decode(&cs); err != nil {
		return nil, fmt.Errorf("can't parse secrets: %w", err)
	}

	secret := cs[config.ClientType()]
	return &Client{
		conf: &oauth2.Config{
			ClientID:     secret.ClientId,
			ClientSecret: secret.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  config.RedirectURL(),
			Scopes:       []string{calendar.CalendarEventsReadonlyScope},
		},
	}, nil
}

func (c *Client) Exchange(ctx context.Context, authCode string) (*oauth2.Token, error) {
	token, err := c.conf.Exchange(ctx, authCode)
	if err != nil {
		return nil, classify(err)
	}

	return token, nil
}

// FetchEvents lists the primary calendar over [from, to]. Recurring
// series are expanded by the API itself (single events mode); the
// importer never expands externally defined recurrences.
func (c *Client) FetchEvents(ctx context.Context, token *oauth2.Token, from, to time.Time) ([]*model.Event, error) {
	service, err := calendar.NewService(ctx,
		option.WithTokenSource(c.conf.TokenSource(ctx, token)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Calendar API: %w", err)
	}

	var res []*model.Event
	pageToken := ""

	for {
		call := service.Events.List("primary").
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, classify(err)
		}

		for _, item := range events.Items {
			if e := normalizeEvent(item); e != nil {
				res = append(res, e)
			}
		}

		if events.NextPageToken == "" {
			return res, nil
		}
		pageToken = events.NextPageToken
	}
}
