// Package instagram is a thin client for the pieces of the Instagram Graph
// API the publishing workflow needs: staging media containers, staging a
// carousel container, publishing by creation id, and reading an account
// profile. Parameter names follow the Graph API exactly; a real connected
// account only works if they match.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "carousel-studio/internal/common/http"
	"carousel-studio/internal/models"
)

const DefaultBaseURL = "https://graph.instagram.com/v21.0"

type Client struct {
	baseURL    string
	httpClient *commonhttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: commonhttp.NewClient(timeout),
	}
}

// graphError is the structured error payload the Graph API returns. The
// message is surfaced verbatim to the caller.
type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type idResponse struct {
	ID string `json:"id"`
}

// CreateImageContainer stages a single image as a media container and
// returns its creation id. For a carousel child, carouselItem must be true
// and caption empty; the caption belongs on the carousel container.
func (c *Client) CreateImageContainer(ctx context.Context, accountID, accessToken, imageURL, caption string, carouselItem bool) (string, error) {
	params := url.Values{}
	params.Set("image_url", imageURL)
	params.Set("access_token", accessToken)
	if caption != "" {
		params.Set("caption", caption)
	}
	if carouselItem {
		params.Set("is_carousel_item", "true")
	}

	return c.postForID(ctx, fmt.Sprintf("%s/%s/media", c.baseURL, accountID), params)
}

// CreateCarouselContainer stages the carousel root referencing the child
// container ids, in the order given.
func (c *Client) CreateCarouselContainer(ctx context.Context, accountID, accessToken string, childIDs []string, caption string) (string, error) {
	params := url.Values{}
	params.Set("media_type", "CAROUSEL")
	params.Set("children", strings.Join(childIDs, ","))
	params.Set("caption", caption)
	params.Set("access_token", accessToken)

	return c.postForID(ctx, fmt.Sprintf("%s/%s/media", c.baseURL, accountID), params)
}

// PublishContainer finalizes a staged container and returns the published
// media id.
func (c *Client) PublishContainer(ctx context.Context, accountID, accessToken, creationID string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)
	params.Set("access_token", accessToken)

	return c.postForID(ctx, fmt.Sprintf("%s/%s/media_publish", c.baseURL, accountID), params)
}

// GetProfile reads the account's display fields.
func (c *Client) GetProfile(ctx context.Context, accountID, accessToken string) (*models.Account, error) {
	reqURL := fmt.Sprintf("%s/%s?fields=id,username,name&access_token=%s",
		c.baseURL, accountID, url.QueryEscape(accessToken))

	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp.StatusCode, body)
	}

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &models.Account{
		ID:          profile.ID,
		DisplayName: profile.Name,
		Handle:      profile.Username,
	}, nil
}

func (c *Client) postForID(ctx context.Context, reqURL string, params url.Values) (string, error) {
	resp, err := c.httpClient.PostForm(ctx, reqURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", remoteError(resp.StatusCode, body)
	}

	var created idResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if created.ID == "" {
		return "", fmt.Errorf("no id in response")
	}

	return created.ID, nil
}

// remoteError prefers the structured Graph error message; anything else
// degrades to status plus raw body.
func remoteError(status int, body []byte) error {
	var ge graphError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		return fmt.Errorf("%s", ge.Error.Message)
	}
	return fmt.Errorf("graph api request failed (status %d): %s", status, string(body))
}
