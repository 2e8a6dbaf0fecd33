// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pkgconfig

// dnode is one element of a dlist. Callers that keep a *dnode around may
// remove it in O(1) even while another iteration over the same list is in
// progress, which is the property the C original gets for free from its
// intrusive linked lists (see SPEC_FULL.md, list primitives).
type dnode[T any] struct {
	value      T
	prev, next *dnode[T]
	owner      *dlist[T]
}

// dlist is a non-intrusive, order-preserving doubly linked list. It
// replaces the embedded-node lists of the original implementation (see
// the "Intrusive doubly linked lists" design note in spec.md section 9):
// nodes are heap-allocated wrapper values instead of struct fields, so
// any Go type can be listed without reserving link fields in it.
type dlist[T any] struct {
	head, tail *dnode[T]
	length     int
}

func (l *dlist[T]) Len() int { return l.length }

func (l *dlist[T]) Front() *dnode[T] { return l.head }

func (l *dlist[T]) Back() *dnode[T] { return l.tail }

// PushBack appends value at the end of the list and returns its node
// handle, which remains valid for Remove until the node is removed.
func (l *dlist[T]) PushBack(value T) *dnode[T] {
	n := &dnode[T]{value: value, owner: l}
	if l.tail == nil {
		l.head = n
		l.tail = n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.length++
	return n
}

// Remove unlinks n from its owning list. It is a no-op if n was already
// removed, so it is safe to call from within an in-progress iteration.
func (l *dlist[T]) Remove(n *dnode[T]) {
	if n == nil || n.owner != l {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next, n.owner = nil, nil, nil
	l.length--
}

// Each walks the list front to back, calling f for every node. f may
// remove the current node (or any other already-visited node) without
// disturbing the walk, since the next pointer is captured before f runs.
func (l *dlist[T]) Each(f func(n *dnode[T])) {
	for n := l.head; n != nil; {
		next := n.next
		f(n)
		n = next
	}
}

// Slice returns the list contents as a plain slice, in order.
func (l *dlist[T]) Slice() []T {
	if l.length == 0 {
		return nil
	}
	out := make([]T, 0, l.length)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}
