package chimpmock

import (
	"net"
	"time"
)

type optionFunc[T any] func(T) error

type ServerOption optionFunc[*Server]

// WithAddr sets the TCP address the server listens on, e.g. ":8000".
func WithAddr(addr string) ServerOption {
	return func(s *Server) error {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return errInvalidAddress
		}
		s.addr = addr
		return nil
	}
}

// WithServerName sets the value of the Server response header.
func WithServerName(name string) ServerOption {
	return func(s *Server) error {
		s.name = name
		return nil
	}
}

// WithMaxConns caps the number of simultaneously accepted connections. Zero
// means no limit.
func WithMaxConns(n int) ServerOption {
	return func(s *Server) error {
		if n < 0 {
			return errInvalidMaxConns
		}
		s.maxConns = n
		return nil
	}
}

func WithServerLogger(logger Logger) ServerOption {
	return func(s *Server) error {
		if logger == nil {
			return errNilLogger
		}
		s.logger = logger
		return nil
	}
}

type ClientOption optionFunc[*Client]

// WithPageSize sets how many members are requested per page.
func WithPageSize(n int) ClientOption {
	return func(c *Client) error {
		if n <= 0 {
			return errInvalidPageSize
		}
		c.pageSize = n
		return nil
	}
}

// WithMaxConcurrency bounds the number of archive requests in flight.
func WithMaxConcurrency(n int) ClientOption {
	return func(c *Client) error {
		if n <= 0 {
			return errInvalidConcurrency
		}
		c.maxConcurrency = n
		return nil
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return errInvalidTimeout
		}
		c.timeout = d
		return nil
	}
}

func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			return errNilLogger
		}
		c.logger = logger
		return nil
	}
}

// WithBackoff replaces the retry policy used for throttled and failed requests.
func WithBackoff(opts ...ExponentialBackoffOption) ClientOption {
	return func(c *Client) error {
		c.backoff = newExponentialBackoffFactory(opts...)
		return nil
	}
}

func withInternalClient(ic internalClient) ClientOption {
	return func(c *Client) error {
		c.internal = ic
		return nil
	}
}
