package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"uniliga-tracker/internal/config"
)

// Client fetches the per-season dataset files from the static source. Files
// live under <base>/<sport>/<season>/<name>.json.
type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SourceBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) GetStandings(ctx context.Context, sport, season string) (*StandingsFile, error) {
	return doRequest[StandingsFile](ctx, c, c.fileURL(sport, season, "standings"))
}

func (c *Client) GetCalendar(ctx context.Context, sport, season string) (*CalendarFile, error) {
	return doRequest[CalendarFile](ctx, c, c.fileURL(sport, season, "calendar"))
}

func (c *Client) GetRatings(ctx context.Context, sport, season string) (*RatingsFile, error) {
	return doRequest[RatingsFile](ctx, c, c.fileURL(sport, season, "ratings"))
}

func (c *Client) GetRatingDetail(ctx context.Context, sport, season string) (*DetailFile, error) {
	return doRequest[DetailFile](ctx, c, c.fileURL(sport, season, "detail"))
}

func (c *Client) GetPriorRatings(ctx context.Context, sport, season string) (*RatingsFile, error) {
	return doRequest[RatingsFile](ctx, c, c.fileURL(sport, season, "ratings_prev"))
}

func (c *Client) fileURL(sport, season, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s.json", c.baseURL, sport, season, name)
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("source error fetching %s: %d", url, resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("malformed source file %s: %w", url, err)
	}
	return &result, nil
}
