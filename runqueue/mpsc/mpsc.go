/*
 * Copyright (c) 2019 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package mpsc

import (
	"sync/atomic"
	"unsafe"
)

type node struct {
	next *node
	val  interface{}
}

// Queue is a lock-free, unbounded multiple-producer single-consumer queue.
type Queue struct {
	head, tail *node
}

// New returns an empty queue.
func New() *Queue {
	q := &Queue{}
	stub := &node{}
	q.head = stub
	q.tail = stub
	return q
}

// Push adds x to the back of the queue.
// Push can be safely called from multiple goroutines.
func (q *Queue) Push(x interface{}) {
	n := &node{val: x}
	prev := (*node)(atomic.SwapPointer((*unsafe.Pointer)(unsafe.Pointer(&q.head)), unsafe.Pointer(n)))
	atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(&prev.next)), unsafe.Pointer(n))
}

// Pop removes the item from the front of the queue or nil if the queue is empty.
// Pop must be called from a single goroutine.
func (q *Queue) Pop() interface{} {
	tail := q.tail
	next := (*node)(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&tail.next))))
	if next != nil {
		q.tail = next
		v := next.val
		next.val = nil
		return v
	}
	return nil
}

// Empty reports whether the queue is empty.
// Empty must be called from the consumer goroutine.
func (q *Queue) Empty() bool {
	tail := q.tail
	next := atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&tail.next)))
	return next == nil
}
