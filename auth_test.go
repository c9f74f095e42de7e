package chimpmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicAuthHeader(t *testing.T) {
	assert.Equal(t, "Basic YW55c3RyaW5nOmFwaS1rZXk=", basicAuthHeader(basicAuthUser, "api-key"))
}
