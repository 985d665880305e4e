/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package bufferpool

import (
	"bytes"
	"sync"
)

// maxRetainedSize is the largest buffer capacity given back to the pool.
// Serializing an occasional huge stanza should not pin its memory forever.
const maxRetainedSize = 64 * 1024

var defaultPool = New()

// Pool represents a pool of reusable serialization buffers.
type Pool struct {
	pool sync.Pool
}

// New returns a new buffer pool instance.
func New() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} { return new(bytes.Buffer) },
		},
	}
}

// Get returns an empty buffer from the pool.
func (p *Pool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put gives buf back to the pool. Oversized buffers are dropped.
func (p *Pool) Put(buf *bytes.Buffer) {
	if buf.Cap() > maxRetainedSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// Get returns an empty buffer from the default pool.
func Get() *bytes.Buffer {
	return defaultPool.Get()
}

// Put gives buf back to the default pool.
func Put(buf *bytes.Buffer) {
	defaultPool.Put(buf)
}
