package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	markers []string
}

func (h *fakeHandler) Markers() []string {
	return h.markers
}

func (h *fakeHandler) Process(elements []*MarkedElement, env *Environment) error {
	return nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	h := &fakeHandler{markers: []string{"deprecated", "experimental"}}

	require.NoError(t, r.Register(h))
	assert.Equal(t, h, r.Handler("deprecated"))
	assert.Equal(t, h, r.Handler("experimental"))
	assert.Equal(t, []string{"deprecated", "experimental"}, r.Markers())
}

func TestRegistry_RejectsEmptyMarkerSet(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(&fakeHandler{}))
	assert.Error(t, r.Register(&fakeHandler{markers: []string{""}}))
	assert.Error(t, r.Register(nil))
}

func TestRegistry_RejectsDuplicateClaim(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{markers: []string{"deprecated"}}))

	err := r.Register(&fakeHandler{markers: []string{"deprecated"}})
	assert.Error(t, err)

	// a partially overlapping claim must not register any marker
	err = r.Register(&fakeHandler{markers: []string{"experimental", "deprecated"}})
	assert.Error(t, err)
	assert.Nil(t, r.Handler("experimental"))
}

func TestRegistry_UnknownMarker(t *testing.T) {
	assert.Nil(t, NewRegistry().Handler("deprecated"))
}
