package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Frame is one store-and-forward envelope: an opaque OTR wire frame (a
// query message, a fragment, a data message, ...) addressed between two
// accounts. The relay never inspects Body; OTR's own framing and
// authentication travel inside it.
type Frame struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// Client is an HTTP store-and-forward transport: a default domain.Host
// implementation calls Send from InjectMessage and polls Fetch to
// discover inbound frames to feed into session.Facade.Receive.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a Client against base, using http.DefaultClient unless hc
// is non-nil.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{Base: base, HTTP: hc}
}

// Send delivers one frame to the relay for later pickup by its recipient.
func (c *Client) Send(ctx context.Context, f Frame) error {
	return c.post(ctx, "/msg/"+url.PathEscape(f.To), f, nil)
}

// Fetch retrieves up to limit pending frames addressed to username,
// oldest first. A non-positive limit requests every pending frame.
func (c *Client) Fetch(ctx context.Context, username string, limit int) ([]Frame, error) {
	u := c.Base + "/msg/" + url.PathEscape(username)
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("relay: get %s: %s", u, resp.Status)
	}
	var frames []Frame
	return frames, json.NewDecoder(resp.Body).Decode(&frames)
}

// Ack tells the relay the first count frames previously fetched for
// username have been processed and may be discarded.
func (c *Client) Ack(ctx context.Context, username string, count int) error {
	return c.post(ctx, "/msg/"+url.PathEscape(username)+"/ack", struct {
		Count int `json:"count"`
	}{Count: count}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay: post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
