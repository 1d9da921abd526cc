package transkribus

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"resty.dev/v3"
)

// DefaultBaseURL is the production TrpServer REST root.
const DefaultBaseURL = "https://transkribus.eu/TrpServer/rest"

// Client talks to one TrpServer instance. Login must succeed before any
// other call; afterwards the session cookie is attached to every request.
type Client struct {
	http      *resty.Client
	sessionID string
}

// NewClient returns a client for the service rooted at baseURL. An empty
// baseURL selects the production endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "ts-dumper")
	return &Client{http: hc}
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error { return c.http.Close() }

// SessionID returns the token obtained by Login, or "" before login.
func (c *Client) SessionID() string { return c.sessionID }

// loginResponse matches any XML root carrying a sessionId child element.
type loginResponse struct {
	SessionID string `xml:"sessionId"`
}

// Login establishes a session. The service answers the form POST with an
// XML body whose sessionId element becomes the JSESSIONID cookie for all
// subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"user": username, "pw": password}).
		Post("/auth/login")
	if err != nil {
		return &TransportError{Op: "login", Err: err}
	}
	if res.IsError() {
		return &AuthError{Err: fmt.Errorf("service replied status %d", res.StatusCode())}
	}
	var lr loginResponse
	if err := xml.Unmarshal(res.Bytes(), &lr); err != nil {
		return &AuthError{Err: fmt.Errorf("unreadable login response: %w", err)}
	}
	if lr.SessionID == "" {
		return &AuthError{Err: errors.New("no session id in login response")}
	}
	c.sessionID = lr.SessionID
	c.http.SetHeader("Cookie", "JSESSIONID="+c.sessionID)
	return nil
}

// CollectionByName lists the caller's collections and returns the first one
// whose name matches exactly (case-sensitive).
func (c *Client) CollectionByName(ctx context.Context, name string) (*Collection, error) {
	var envelope struct {
		Collections []Collection `json:"trpCollection"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&envelope).
		Get("/collections")
	if err != nil {
		return nil, &TransportError{Op: "list collections", Err: err}
	}
	if res.IsError() {
		return nil, &TransportError{Op: "list collections", Err: fmt.Errorf("service replied status %d", res.StatusCode())}
	}
	for i := range envelope.Collections {
		if envelope.Collections[i].Name == name {
			return &envelope.Collections[i], nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// Documents enumerates the documents of a collection.
func (c *Client) Documents(ctx context.Context, colID int) ([]Document, error) {
	var docs []Document
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&docs).
		Get(fmt.Sprintf("/collections/%d/list", colID))
	if err != nil {
		return nil, &TransportError{Op: "list documents", Err: err}
	}
	if res.IsError() {
		return nil, &TransportError{Op: "list documents", Err: fmt.Errorf("service replied status %d", res.StatusCode())}
	}
	return docs, nil
}

// Pages fetches the full document descriptor and returns its page list.
func (c *Client) Pages(ctx context.Context, colID, docID int) ([]Page, error) {
	var fulldoc struct {
		PageList struct {
			Pages []Page `json:"pages"`
		} `json:"pageList"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&fulldoc).
		Get(fmt.Sprintf("/collections/%d/%d/fulldoc", colID, docID))
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("fetch document %d", docID), Err: err}
	}
	if res.IsError() {
		return nil, &TransportError{Op: fmt.Sprintf("fetch document %d", docID), Err: fmt.Errorf("service replied status %d", res.StatusCode())}
	}
	return fulldoc.PageList.Pages, nil
}

// TranscriptText downloads a transcript's PAGE XML from its absolute URL
// and extracts the text. ok is false when the transcript has no text.
func (c *Client) TranscriptText(ctx context.Context, url string) (text string, ok bool, err error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", false, &TransportError{Op: "fetch transcript", Err: err}
	}
	if res.IsError() {
		return "", false, &TransportError{Op: "fetch transcript", Err: fmt.Errorf("service replied status %d", res.StatusCode())}
	}
	return PageText(res.Bytes())
}
