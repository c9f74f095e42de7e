package chimpmock

import "errors"

var (
	errInvalidLogLevel    = errors.New("invalid log level")
	errInvalidAddress     = errors.New("invalid address")
	errInvalidMaxConns    = errors.New("invalid max connections")
	errInvalidPageSize    = errors.New("invalid page size")
	errInvalidConcurrency = errors.New("invalid concurrency")
	errInvalidTimeout     = errors.New("invalid timeout")
	errInvalidBaseURL     = errors.New("invalid base url")
	errNilLogger          = errors.New("logger must not be nil")
	errNilFixture         = errors.New("fixture must not be nil")
	ErrMissingMembers     = errors.New("fixture has no members array")
	ErrFixtureNotAnObject = errors.New("fixture is not a JSON object")
	ErrUnexpectedStatus   = errors.New("unexpected response status")
)
