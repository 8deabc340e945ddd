package processor

import (
	"fmt"
	"sort"
)

// Registry maps marker identifiers to the handler that claims them.
type Registry map[string]Handler

func NewRegistry() Registry {
	return make(Registry)
}

// Register adds a handler for every marker it claims. Handlers with an
// empty marker set are rejected, as is any marker already claimed by a
// previously registered handler.
func (r Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}

	markers := h.Markers()
	if len(markers) == 0 {
		return fmt.Errorf("handler %T claims no markers", h)
	}

	for _, marker := range markers {
		if marker == "" {
			return fmt.Errorf("handler %T claims an empty marker identifier", h)
		}
		if _, ok := r[marker]; ok {
			return fmt.Errorf("marker already claimed: %s", marker)
		}
	}

	for _, marker := range markers {
		r[marker] = h
	}
	return nil
}

// Handler returns the handler claiming the marker, or nil.
func (r Registry) Handler(marker string) Handler {
	return r[marker]
}

// Markers returns all claimed marker identifiers in sorted order.
func (r Registry) Markers() []string {
	markers := make([]string, 0, len(r))
	for marker := range r {
		markers = append(markers, marker)
	}
	sort.Strings(markers)
	return markers
}
