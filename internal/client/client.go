// Package client is the sync layer: it moves whole book documents between
// an editor and the REST API, and drives periodic autosave.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evfilters/scrapbook-api/internal/scrapbook"
)

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch loads the user's book; the server seeds a default on first read, so
// this never reports "not found".
func (c *Client) Fetch(ctx context.Context, userID string) (*scrapbook.Book, error) {
	var book scrapbook.Book
	if err := c.do(ctx, http.MethodGet, c.bookURL(userID), nil, &book); err != nil {
		return nil, err
	}
	book.Normalize()
	return &book, nil
}

// Save replaces the whole document and returns the persisted copy with the
// server-assigned version.
func (c *Client) Save(ctx context.Context, userID string, b *scrapbook.Book) (*scrapbook.Book, error) {
	var resp struct {
		Message string          `json:"message"`
		Book    *scrapbook.Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPost, c.bookURL(userID), b, &resp); err != nil {
		return nil, err
	}
	return resp.Book, nil
}

// SavePage replaces one page (or appends at index == page count).
func (c *Client) SavePage(ctx context.Context, userID string, idx int, p scrapbook.Page) error {
	u := c.bookURL(userID) + "/page/" + strconv.Itoa(idx)
	return c.do(ctx, http.MethodPatch, u, p, nil)
}

// Remove deletes the document; removing an absent one succeeds.
func (c *Client) Remove(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, c.bookURL(userID), nil, nil)
}

func (c *Client) bookURL(userID string) string {
	return c.base + "/api/book/" + url.PathEscape(userID)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(raw)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		if e.Error == "" {
			e.Error = res.Status
		}
		return fmt.Errorf("%s %s: %s", method, u, e.Error)
	}

	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
