package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"qamind/pkg/core/logging"
)

const contentExpand = "body.storage,version,metadata.labels,space"

// Client talks to the Confluence REST API (v1 content endpoints).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a REST client. A token of the form "email:token" selects
// basic auth; anything else is sent as a bearer token.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" || token == "" {
		return nil, fmt.Errorf("confluence base URL and auth token must be set")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// contentResponse mirrors the REST content resource.
type contentResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Version struct {
		Number int       `json:"number"`
		When   time.Time `json:"when"`
	} `json:"version"`
	Metadata struct {
		Labels struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"labels"`
	} `json:"metadata"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

type childListResponse struct {
	Results []contentResponse `json:"results"`
	Size    int               `json:"size"`
}

func (c *Client) GetPagesByIDs(ctx context.Context, pageIDs []string, includeChildren bool) ([]Page, error) {
	log := logging.New("confluence")

	var pages []Page
	for _, id := range pageIDs {
		page, err := c.GetPageContent(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return pages, ctx.Err()
			}
			log.WithError(err).WithField("page_id", id).Warn("skipping page")
			continue
		}
		pages = append(pages, *page)

		if includeChildren {
			children, err := c.childPages(ctx, id)
			if err != nil {
				log.WithError(err).WithField("page_id", id).Warn("could not list children")
				continue
			}
			pages = append(pages, children...)
		}
	}
	return pages, nil
}

func (c *Client) GetPageContent(ctx context.Context, pageID string) (*Page, error) {
	var resp contentResponse
	path := fmt.Sprintf("/rest/api/content/%s?expand=%s", pageID, url.QueryEscape(contentExpand))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageID, err)
	}
	page := c.toPage(resp)
	return &page, nil
}

// childPages returns the full descendant subtree of a page, depth first.
func (c *Client) childPages(ctx context.Context, parentID string) ([]Page, error) {
	var list childListResponse
	path := fmt.Sprintf("/rest/api/content/%s/child/page?expand=%s&limit=100", parentID, url.QueryEscape(contentExpand))
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}

	var pages []Page
	for _, child := range list.Results {
		pages = append(pages, c.toPage(child))
		grandchildren, err := c.childPages(ctx, child.ID)
		if err != nil {
			return pages, err
		}
		pages = append(pages, grandchildren...)
	}
	return pages, nil
}

// TestConnection verifies the credentials by listing spaces.
func (c *Client) TestConnection(ctx context.Context) error {
	var resp struct {
		Results []struct {
			Key string `json:"key"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/rest/api/space?limit=5", &resp); err != nil {
		return fmt.Errorf("confluence connection check: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if email, pass, ok := strings.Cut(c.token, ":"); ok && strings.Contains(email, "@") {
		req.SetBasicAuth(email, pass)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) toPage(resp contentResponse) Page {
	labels := make([]string, 0, len(resp.Metadata.Labels.Results))
	for _, l := range resp.Metadata.Labels.Results {
		labels = append(labels, l.Name)
	}

	space := resp.Space.Key
	if space == "" {
		space = "UNKNOWN"
	}
	version := resp.Version.Number
	if version == 0 {
		version = 1
	}
	updated := resp.Version.When
	if updated.IsZero() {
		updated = time.Now()
	}

	return Page{
		ID:      resp.ID,
		Title:   resp.Title,
		Space:   space,
		URL:     fmt.Sprintf("%s/pages/%s", c.baseURL, resp.ID),
		Labels:  labels,
		Version: version,
		Updated: updated,
		Content: resp.Body.Storage.Value,
	}
}
