// Package wikipedia fetches and extracts rugby match data from Wikipedia
// articles, via the MediaWiki API. Raw wikitext is the primary source; the
// rendered-HTML path exists only for the earliest World Cup pages, which
// predate match templates entirely.
package wikipedia

import (
	"context"
	"net/url"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/platform/fetch"
	"rugbydata/internal/platform/logging"
)

const defaultAPIURL = "https://en.wikipedia.org/w/api.php"

// ErrPageMissing is returned when the API answers but the page has no
// content, e.g. a title that does not exist for the requested year.
var ErrPageMissing = crerr.New("wikipedia page has no content")

type ClientConfig struct {
	Fetcher *fetch.Client
	APIURL  string
	Logger  *logging.Logger
}

type Client struct {
	fetcher *fetch.Client
	apiURL  string
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.ClientConfig{Logger: logger})
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{fetcher: fetcher, apiURL: apiURL, logger: logger}
}

type revisionEnvelope struct {
	Query struct {
		Pages map[string]struct {
			Revisions []struct {
				Content string `json:"*"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

type parseEnvelope struct {
	Parse struct {
		Text struct {
			Content string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
}

// PageWikitext fetches the raw wikitext of one article, following redirects.
func (c *Client) PageWikitext(ctx context.Context, title string) (string, error) {
	values := url.Values{}
	values.Set("action", "query")
	values.Set("titles", title)
	values.Set("prop", "revisions")
	values.Set("rvprop", "content")
	values.Set("format", "json")
	values.Set("redirects", "1")

	raw, err := c.fetcher.Get(ctx, c.apiURL+"?"+values.Encode())
	if err != nil {
		return "", crerr.Wrapf(err, "fetch wikitext for %q", title)
	}

	var envelope revisionEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", crerr.Wrapf(err, "decode wikitext response for %q", title)
	}
	for _, page := range envelope.Query.Pages {
		if len(page.Revisions) > 0 && page.Revisions[0].Content != "" {
			return page.Revisions[0].Content, nil
		}
	}
	return "", crerr.Wrapf(ErrPageMissing, "title %q", title)
}

// FirstWikitext tries candidate titles in order and returns the first page
// that has content. Competitions whose naming drifted across years supply
// several candidates.
func (c *Client) FirstWikitext(ctx context.Context, titles []string) (string, error) {
	var lastErr error
	for _, title := range titles {
		text, err := c.PageWikitext(ctx, title)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Debug("page title yielded nothing, trying next", "title", title, "error", err)
	}
	if lastErr == nil {
		lastErr = crerr.Wrap(ErrPageMissing, "no candidate titles")
	}
	return "", lastErr
}

// PageHTML fetches the rendered HTML of one article via the parse API.
func (c *Client) PageHTML(ctx context.Context, title string) (string, error) {
	values := url.Values{}
	values.Set("action", "parse")
	values.Set("page", title)
	values.Set("prop", "text")
	values.Set("format", "json")
	values.Set("redirects", "1")

	raw, err := c.fetcher.Get(ctx, c.apiURL+"?"+values.Encode())
	if err != nil {
		return "", crerr.Wrapf(err, "fetch html for %q", title)
	}

	var envelope parseEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", crerr.Wrapf(err, "decode html response for %q", title)
	}
	if envelope.Parse.Text.Content == "" {
		return "", crerr.Wrapf(ErrPageMissing, "title %q", title)
	}
	return envelope.Parse.Text.Content, nil
}
