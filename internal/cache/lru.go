package cache

// lruList is an intrusive doubly-linked list over memo entries.
// The head is the most recently used entry, the tail the least.
type lruList[K comparable, V any] struct {
	head *memoEntry[K, V]
	tail *memoEntry[K, V]
	len  int
}

// pushFront inserts e as the most recently used entry.
func (l *lruList[K, V]) pushFront(e *memoEntry[K, V]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.len++
}

// moveToFront marks an entry already in the list as most recently used.
func (l *lruList[K, V]) moveToFront(e *memoEntry[K, V]) {
	if e == l.head {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

// unlink removes e from the list and clears its links.
func (l *lruList[K, V]) unlink(e *memoEntry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev = nil
	e.next = nil
	l.len--
}
