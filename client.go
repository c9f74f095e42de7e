package chimpmock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	defaultPageSize       = 100
	defaultMaxConcurrency = 8
	defaultClientTimeout  = 10 * time.Second
)

type internalClient interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
}

// Client talks to the list members endpoints of the Mailchimp API, or of the
// mock server in this module.
type Client struct {
	baseURL string
	listID  string
	auth    string

	pageSize       int
	maxConcurrency int
	timeout        time.Duration

	logger   Logger
	backoff  *exponentialBackoffFactory
	internal internalClient
}

func NewClient(baseURL, listID, apiKey string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		listID:         listID,
		auth:           basicAuthHeader(basicAuthUser, apiKey),
		pageSize:       defaultPageSize,
		maxConcurrency: defaultMaxConcurrency,
		timeout:        defaultClientTimeout,
		logger:         newNopLogger(),
		backoff:        newExponentialBackoffFactory(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.internal == nil {
		c.internal = &fasthttp.Client{
			Name:         "chimpmock-janitor",
			ReadTimeout:  c.timeout,
			WriteTimeout: c.timeout,
		}
	}

	return c, nil
}

// ListMembers fetches one page of members.
func (c *Client) ListMembers(ctx context.Context, offset, count int) (*ListResponse, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("count", strconv.Itoa(count))
	args.Set("offset", strconv.Itoa(offset))

	return c.listMembers(ctx, args)
}

// FetchUnsubscribed walks every page of unsubscribed members, oldest signup
// first, and calls fn for each. An error from fn stops the walk.
func (c *Client) FetchUnsubscribed(ctx context.Context, fn func(Member) error) error {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	for offset := 0; ; offset += c.pageSize {
		args.Reset()
		args.Set("status", StatusUnsubscribed)
		args.Set("count", strconv.Itoa(c.pageSize))
		args.Set("offset", strconv.Itoa(offset))
		args.Set("sort_field", "timestamp_signup")
		args.Set("sort_dir", "ASC")

		page, err := c.listMembers(ctx, args)
		if err != nil {
			return err
		}
		if len(page.Members) == 0 {
			return nil
		}

		for _, m := range page.Members {
			// the mock ignores the status filter
			if m.Status != StatusUnsubscribed {
				continue
			}
			if err := fn(m); err != nil {
				return err
			}
		}
	}
}

// ArchiveMember marks the member as cleaned, which moves it to the archive.
func (c *Client) ArchiveMember(ctx context.Context, id string) error {
	body, err := json.Marshal(updateMemberRequest{Status: StatusCleaned})
	if err != nil {
		return err
	}

	path := c.membersPath() + "/" + url.PathEscape(id)
	if _, err := c.do(ctx, fasthttp.MethodPatch, path, nil, body); err != nil {
		return fmt.Errorf("archive member %s: %w", id, err)
	}

	c.logger.Debug("Archived member", LogContext{"id": id})
	return nil
}

func (c *Client) listMembers(ctx context.Context, args *fasthttp.Args) (*ListResponse, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, c.membersPath(), args, nil)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	var out ListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode members page: %w", err)
	}

	return &out, nil
}

func (c *Client) membersPath() string {
	return "/3.0/lists/" + url.PathEscape(c.listID) + "/members"
}

// do sends one request, retrying throttled, failed and unreachable attempts,
// and returns a copy of the response body.
func (c *Client) do(ctx context.Context, method, path string, args *fasthttp.Args, body []byte) ([]byte, error) {
	uri := c.baseURL + path
	if args != nil && args.Len() > 0 {
		uri += "?" + args.String()
	}

	var out []byte
	err := retry(ctx, func() error {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(uri)
		req.Header.SetMethod(method)
		req.Header.Set(fasthttp.HeaderAuthorization, c.auth)
		if body != nil {
			req.Header.SetContentType(contentTypeJSON)
			req.SetBody(body)
		}

		if err := c.internal.Do(req, resp); err != nil {
			c.logger.Warn("Failed to send request", LogContext{"method": method, "url": uri, "err": err})
			return err
		}

		status := resp.StatusCode()
		switch {
		case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
			c.logger.Warn("Retryable response", LogContext{"method": method, "url": uri, "status": status})
			return decodeAPIError(status, resp.Body())
		case status >= fasthttp.StatusBadRequest:
			return permanent(decodeAPIError(status, resp.Body()))
		case status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices:
			return permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, status))
		}

		out = append([]byte(nil), resp.Body()...)
		return nil
	}, c.backoff.New())

	return out, err
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	_ = json.Unmarshal(body, apiErr)
	if apiErr.Status == 0 {
		apiErr.Status = status
	}

	return apiErr
}
