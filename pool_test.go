package chimpmock

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFactory[T any] struct {
	mock.Mock
}

func (m *MockFactory[T]) New() T {
	args := m.Called()
	return args.Get(0).(T)
}

func (m *MockFactory[T]) Reset(item T) {
	m.Called(item)
}

func TestNewPool(t *testing.T) {
	var mockFactory MockFactory[int]
	mockFactory.On("New").Return(0)

	pool := NewPool[int](&mockFactory)

	assert.NotNil(t, pool, "pool should not be nil")
	assert.IsType(t, &Pool[int]{}, pool, "pool should be of type *Pool[int]")
}

func TestPoolOperations(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		var mockFactory MockFactory[int]
		mockFactory.On("New").Return(0)

		pool := NewPool[int](&mockFactory)

		assert.Equal(t, 0, pool.Get(), "item should be 0")
	})

	t.Run("Put resets the item", func(t *testing.T) {
		var mockFactory MockFactory[int]
		mockFactory.On("New").Return(0)
		mockFactory.On("Reset", 0).Return()

		pool := NewPool[int](&mockFactory)
		pool.Put(pool.Get())

		assert.Equal(t, 0, pool.Get(), "retrieved item should be 0")
		mockFactory.AssertExpectations(t)
	})

	t.Run("Buffers come back empty", func(t *testing.T) {
		pool := NewPool[*bytes.Buffer](bufferFactory{})

		buf := pool.Get()
		buf.WriteString("stale")
		pool.Put(buf)

		assert.Equal(t, 0, buf.Len(), "buffer should be reset on Put")
		assert.Equal(t, 0, pool.Get().Len(), "pooled buffer should be empty")
	})
}
