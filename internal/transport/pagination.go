package transport

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// getAll performs a GET, following Link headers and merging pages when
// auto-pagination is enabled. The onPage callback fires once per fetched
// page (including the only page when pagination is off).
func (c *Client) getAll(ctx context.Context, path string, query url.Values, onPage func(*ghapp.Response) error) (*ghapp.Response, error) {
	if !c.autoPaginate {
		resp, err := c.Get(ctx, path, query)
		if err != nil {
			return resp, err
		}

		if onPage != nil {
			if err := onPage(resp); err != nil {
				return resp, err
			}
		}

		return resp, nil
	}

	if query == nil {
		query = url.Values{}
	}

	query.Set("per_page", strconv.Itoa(c.perPage))

	var merged *ghapp.Response

	nextPath, nextQuery := path, query

	for {
		resp, err := c.Get(ctx, nextPath, nextQuery)
		if err != nil {
			return resp, err
		}

		if onPage != nil {
			if err := onPage(resp); err != nil {
				return merged, err
			}
		}

		merged = mergePages(merged, resp)

		next := nextLink(resp.Headers)
		if next == "" {
			break
		}

		parsed, err := url.Parse(next)
		if err != nil {
			break
		}

		nextPath, nextQuery = parsed.Path, parsed.Query()
	}

	return merged, nil
}

// nextLink extracts the rel="next" URL from a Link header, if any.
func nextLink(headers map[string][]string) string {
	for _, header := range headers["Link"] {
		for _, part := range strings.Split(header, ",") {
			section := strings.Split(part, ";")
			if len(section) < 2 {
				continue
			}

			if strings.TrimSpace(section[1]) != `rel="next"` {
				continue
			}

			link := strings.TrimSpace(section[0])

			return strings.Trim(link, "<>")
		}
	}

	return ""
}

// mergePages folds a page into the accumulated response. Array bodies are
// concatenated; search-style objects have their "items" arrays joined under
// the first page's shell. Anything else keeps the first page as-is.
func mergePages(acc, page *ghapp.Response) *ghapp.Response {
	if acc == nil {
		return page
	}

	var accItems, pageItems []json.RawMessage
	if json.Unmarshal(acc.Body, &accItems) == nil && json.Unmarshal(page.Body, &pageItems) == nil {
		combined, err := json.Marshal(append(accItems, pageItems...))
		if err == nil {
			acc.Body = combined
		}

		return acc
	}

	var accObj, pageObj map[string]json.RawMessage
	if json.Unmarshal(acc.Body, &accObj) == nil && json.Unmarshal(page.Body, &pageObj) == nil {
		if json.Unmarshal(accObj["items"], &accItems) == nil && json.Unmarshal(pageObj["items"], &pageItems) == nil {
			items, err := json.Marshal(append(accItems, pageItems...))
			if err == nil {
				accObj["items"] = items
				if body, err := json.Marshal(accObj); err == nil {
					acc.Body = body
				}
			}
		}
	}

	return acc
}
