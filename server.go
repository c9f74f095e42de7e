package chimpmock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"golang.org/x/net/netutil"
)

const (
	DefaultAddr   = ":8000"
	defaultOffset = 0
	defaultCount  = 100

	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-Id"
)

type messageBody struct {
	Message string `json:"message"`
}

// Server answers a small subset of the Mailchimp list members API from a
// fixture. Requests never change the fixture.
type Server struct {
	addr     string
	name     string
	maxConns int

	fixture  *Fixture
	logger   Logger
	router   *router
	buffers  *Pool[*bytes.Buffer]
	internal *fasthttp.Server
}

func NewServer(fixture *Fixture, opts ...ServerOption) (*Server, error) {
	if fixture == nil {
		return nil, errNilFixture
	}

	s := &Server{
		addr:    DefaultAddr,
		name:    "chimpmock",
		fixture: fixture,
		logger:  newNopLogger(),
		buffers: NewPool[*bytes.Buffer](bufferFactory{}),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.router = &router{
		routes: []route{
			newRoute("listMembers", fasthttp.MethodGet, "/3.0/lists/{listId}/members", s.listMembers),
			newRoute("updateMember", fasthttp.MethodPatch, "/3.0/lists/{listId}/members/{memberId}", s.updateMember),
		},
		notFound: s.notFound,
	}

	s.internal = &fasthttp.Server{
		Handler: s.handle,
		Name:    s.name,
		Logger:  &fasthttpLogger{logger: s.logger},
	}

	return s, nil
}

// Handler exposes the routing handler, mainly for embedding and tests.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.handle
}

func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe listens on the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	return s.Serve(ln)
}

// Serve accepts connections from ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	s.logger.Info("Mock server is running", LogContext{
		"addr":     ln.Addr().String(),
		"members":  s.fixture.Len(),
		"maxConns": s.maxConns,
	})

	return s.internal.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones to finish or
// for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down mock server")
	return s.internal.ShutdownWithContext(ctx)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	requestID := uuid.NewString()
	ctx.Response.Header.Set(requestIDHeader, requestID)

	// Routes match the path as sent, so "//", "./" and "%2F" are not rewritten.
	method := string(ctx.Method())
	name, handler, params := s.router.lookup(method, string(ctx.URI().PathOriginal()))

	s.logger.Info("Received request", LogContext{
		"time":      ctx.Time(),
		"method":    method,
		"url":       string(ctx.RequestURI()),
		"route":     name,
		"requestID": requestID,
	})

	handler(ctx, params)
}

func (s *Server) listMembers(ctx *fasthttp.RequestCtx, params routeParams) {
	args := ctx.QueryArgs()
	offset := intOrDefault(args.Peek("offset"), defaultOffset)
	count := intOrDefault(args.Peek("count"), defaultCount)

	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.fixture.Envelope(offset, count)); err != nil {
		s.logger.Error("Failed to encode list response", LogContext{"listId": params["listId"], "err": err})
		s.writeMessage(ctx, fasthttp.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.logger.Info("Sending list response", LogContext{
		"listId": params["listId"],
		"offset": offset,
		"count":  count,
		"body":   buf.String(),
	})

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(buf.Bytes())
}

// updateMember acknowledges the update without reading the body.
func (s *Server) updateMember(ctx *fasthttp.RequestCtx, params routeParams) {
	s.logger.Debug("Acknowledging member update", LogContext{
		"listId":   params["listId"],
		"memberId": params["memberId"],
	})

	s.writeMessage(ctx, fasthttp.StatusOK, "OK")
}

func (s *Server) notFound(ctx *fasthttp.RequestCtx, _ routeParams) {
	s.writeMessage(ctx, fasthttp.StatusNotFound, "Not Found")
}

func (s *Server) writeMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(messageBody{Message: message})

	ctx.SetStatusCode(status)
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(body)
}

type fasthttpLogger struct {
	logger Logger
}

func (l *fasthttpLogger) Printf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
