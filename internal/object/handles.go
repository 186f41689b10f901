package object

import (
	"errors"
	"io"
	"sort"
)

// Handles keeps native resources (database connections and the like) that
// outlive a single call. Scripts only ever see the integer id.
type Handles struct {
	next  int64
	items map[int64]any
}

func NewHandles() *Handles {
	return &Handles{items: make(map[int64]any)}
}

func (h *Handles) Put(item any) int64 {
	h.next++
	h.items[h.next] = item
	return h.next
}

func (h *Handles) Get(id int64) (any, bool) {
	item, ok := h.items[id]
	return item, ok
}

func (h *Handles) Delete(id int64) {
	delete(h.items, id)
}

func (h *Handles) Len() int {
	return len(h.items)
}

// CloseAll closes every item that is an io.Closer, in id order, and forgets
// all handles.
func (h *Handles) CloseAll() error {
	ids := make([]int64, 0, len(h.items))
	for id := range h.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var errs []error
	for _, id := range ids {
		if c, ok := h.items[id].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	h.items = make(map[int64]any)
	return errors.Join(errs...)
}
