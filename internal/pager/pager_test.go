package pager

import (
	"testing"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/metrics"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	strips  []Strip
	cleared int
	visible bool
	active  bool
}

func newFakeView() *fakeView { return &fakeView{visible: true, active: true} }

func (v *fakeView) Draw(s Strip)  { v.strips = append(v.strips, s) }
func (v *fakeView) Clear()        { v.cleared++ }
func (v *fakeView) Visible() bool { return v.visible }
func (v *fakeView) Active() bool  { return v.active }
func (v *fakeView) last() Strip   { return v.strips[len(v.strips)-1] }

func TestPaginatorButtonWindow(t *testing.T) {
	view := newFakeView()
	p := NewPaginator(view, 36, nil, Options{PageSize: 3, ButtonWindow: 5})
	require.Equal(t, 12, p.TotalPages())

	tests := []struct {
		page       int
		want       []int
		prev, next bool
	}{
		{1, []int{1, 2, 3, 4, 5}, false, true},
		{6, []int{4, 5, 6, 7, 8}, true, true},
		{12, []int{8, 9, 10, 11, 12}, true, false},
		{2, []int{1, 2, 3, 4, 5}, true, true},
		{11, []int{8, 9, 10, 11, 12}, true, true},
	}
	for _, tt := range tests {
		s := p.Render(tt.page)
		assert.Equal(t, tt.want, s.Pages(), "page %d", tt.page)
		assert.Equal(t, tt.prev, s.HasPrev(), "prev on page %d", tt.page)
		assert.Equal(t, tt.next, s.HasNext(), "next on page %d", tt.page)
		assert.Equal(t, s, view.last())
	}
}

func TestPaginatorRenderClamps(t *testing.T) {
	p := NewPaginator(newFakeView(), 7, nil, Options{PageSize: 3})
	assert.Equal(t, 3, p.Render(99).Current)
	assert.Equal(t, 1, p.Render(-4).Current)

	s := p.Render(2)
	for _, c := range s.Controls {
		if c.Kind == ControlPage {
			assert.Equal(t, c.Page == 2, c.Active)
		}
	}
}

func TestPaginatorEmpty(t *testing.T) {
	s := NewPaginator(newFakeView(), 0, nil, Options{}).Render(1)
	assert.Empty(t, s.Controls)
}

func TestWindowButtonCount(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("exactly min(total, width) buttons around current", prop.ForAll(
		func(total, width, pick int) bool {
			current := pick%total + 1
			start, end := ButtonRange(current, total, width)
			return end-start+1 == min(total, width) &&
				start >= 1 && end <= total &&
				current >= start && current <= end
		},
		gen.IntRange(1, 60),
		gen.IntRange(1, 9),
		gen.IntRange(0, 1000),
	))
	properties.TestingRun(t)
}

func TestWindowEvenWidth(t *testing.T) {
	start, end := ButtonRange(6, 12, 4)
	assert.Equal(t, 4, end-start+1)
}

func TestSelectCallsOnChangeOncePerDistinctPage(t *testing.T) {
	var changes []int
	view := newFakeView()
	p := NewPaginator(view, 30, func(page int) { changes = append(changes, page) }, Options{PageSize: 3})
	p.Render(1)

	assert.True(t, p.Select(4))
	assert.False(t, p.Select(4), "same page")
	assert.False(t, p.Select(0))
	assert.False(t, p.Select(11))
	s := view.last()
	require.True(t, s.HasNext())
	assert.True(t, p.Activate(s.Controls[len(s.Controls)-1]))

	assert.Equal(t, []int{4, 5}, changes)
	assert.Equal(t, 5, p.Current())
	assert.Equal(t, 5, view.last().Current)
}

func TestBounds(t *testing.T) {
	p := NewPaginator(newFakeView(), 7, nil, Options{PageSize: 3})
	s, e := p.Bounds(1)
	assert.Equal(t, [2]int{0, 3}, [2]int{s, e})
	s, e = p.Bounds(3)
	assert.Equal(t, [2]int{6, 7}, [2]int{s, e})
	s, e = p.Bounds(10)
	assert.Equal(t, [2]int{6, 7}, [2]int{s, e})
}

func TestKeyboardOnlyWhenVisibleAndActive(t *testing.T) {
	bus := NewBus(nil)
	var changes []int
	view := newFakeView()
	p := NewPaginator(view, 9, func(page int) { changes = append(changes, page) }, Options{PageSize: 3, Bus: bus})
	p.Render(1)

	assert.Equal(t, 0, bus.Dispatch(KeyLeft), "already on first page")
	assert.Equal(t, 1, bus.Dispatch(KeyRight))

	view.active = false
	assert.Equal(t, 0, bus.Dispatch(KeyRight))
	view.active, view.visible = true, false
	assert.Equal(t, 0, bus.Dispatch(KeyRight))
	view.visible = true
	assert.Equal(t, 1, bus.Dispatch(KeyRight))
	assert.Equal(t, 0, bus.Dispatch(KeyRight), "already on last page")
	assert.Equal(t, 1, bus.Dispatch(KeyLeft))

	assert.Equal(t, []int{2, 3, 2}, changes)
}

func TestDestroyReleasesListenerAndClears(t *testing.T) {
	m := metrics.New()
	bus := NewBus(m)
	view := newFakeView()
	calls := 0
	p := NewPaginator(view, 9, func(int) { calls++ }, Options{PageSize: 3, Bus: bus})
	other := NewPaginator(newFakeView(), 9, nil, Options{PageSize: 3, Bus: bus})
	require.Equal(t, 2, bus.Len())

	p.Destroy()
	p.Destroy()
	assert.Equal(t, 1, bus.Len())
	assert.Equal(t, 1, view.cleared)

	bus.Dispatch(KeyRight)
	assert.Zero(t, calls, "destroyed paginator ignores keys")
	assert.False(t, p.Select(2))
	assert.Equal(t, 2, other.Current())

	other.Destroy()
	assert.Zero(t, bus.Len())
}

func TestBusUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus(nil)
	a := bus.Subscribe(func(Key) bool { return true })
	bus.Subscribe(func(Key) bool { return false })
	a()
	a()
	assert.Equal(t, 1, bus.Len())
	assert.Equal(t, 0, bus.Dispatch(KeyLeft))
}
