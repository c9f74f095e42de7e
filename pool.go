package chimpmock

import (
	"bytes"
	"sync"
)

type PoolItemFactory[T any] interface {
	New() T
	Reset(T)
}

type Pool[T any] struct {
	internal sync.Pool
	factory  PoolItemFactory[T]
}

func NewPool[T any](factory PoolItemFactory[T]) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() interface{} {
				return factory.New()
			},
		},
		factory: factory,
	}
}

func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put resets item before handing it back to the pool.
func (p *Pool[T]) Put(item T) {
	p.factory.Reset(item)
	p.internal.Put(item)
}

type bufferFactory struct{}

func (bufferFactory) New() *bytes.Buffer {
	return new(bytes.Buffer)
}

func (bufferFactory) Reset(b *bytes.Buffer) {
	b.Reset()
}
