package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 4, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Closed(at(9, 0), at(10, 0)), Closed(at(11, 0), at(12, 0)), false},
		{"touching", Closed(at(9, 0), at(10, 0)), Closed(at(10, 0), at(11, 0)), false},
		{"partial", Closed(at(9, 0), at(10, 30)), Closed(at(10, 0), at(11, 0)), true},
		{"nested", Closed(at(9, 0), at(17, 0)), Closed(at(12, 0), at(12, 30)), true},
		{"identical", Closed(at(9, 0), at(10, 0)), Closed(at(9, 0), at(10, 0)), true},
		{"open after closed", Open(at(10, 0)), Closed(at(9, 0), at(10, 0)), false},
		{"open inside closed", Open(at(9, 30)), Closed(at(9, 0), at(10, 0)), true},
		{"open before closed", Open(at(8, 0)), Closed(at(9, 0), at(10, 0)), true},
		{"two open", Open(at(8, 0)), Open(at(20, 0)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, tc.want, Overlaps(tc.b, tc.a), "symmetric")
		})
	}
}

func TestExistsOverlap(t *testing.T) {
	spans := []Span{
		{ID: 1, Interval: Closed(at(9, 0), at(12, 0))},
		{ID: 2, Interval: Closed(at(13, 0), at(17, 0))},
	}

	assert.False(t, ExistsOverlap(Closed(at(12, 0), at(13, 0)), spans, 0))
	assert.True(t, ExistsOverlap(Closed(at(11, 0), at(14, 0)), spans, 0))
	assert.True(t, ExistsOverlap(Closed(at(10, 0), at(11, 0)), spans, 2))
	assert.False(t, ExistsOverlap(Closed(at(10, 0), at(11, 0)), spans, 1), "a row never conflicts with itself")
	assert.False(t, ExistsOverlap(Closed(at(10, 0), at(11, 0)), nil, 0))
}

func TestIntervalValidate(t *testing.T) {
	assert.NoError(t, Closed(at(9, 0), at(10, 0)).Validate())
	assert.NoError(t, Open(at(9, 0)).Validate())
	assert.ErrorIs(t, Closed(at(10, 0), at(10, 0)).Validate(), ErrIntervalInverted)
	assert.ErrorIs(t, Closed(at(10, 0), at(9, 0)).Validate(), ErrIntervalInverted)
	assert.ErrorIs(t, Interval{}.Validate(), ErrIntervalNoStart)
}

func TestIntervalContains(t *testing.T) {
	session := Closed(at(9, 0), at(17, 0))
	assert.True(t, session.Contains(Closed(at(9, 0), at(17, 0))))
	assert.True(t, session.Contains(Closed(at(12, 0), at(12, 30))))
	assert.False(t, session.Contains(Closed(at(8, 59), at(9, 30))))
	assert.False(t, session.Contains(Closed(at(16, 30), at(17, 1))))
	assert.False(t, session.Contains(Open(at(12, 0))), "an open pause does not fit a closed session")

	running := Open(at(9, 0))
	assert.True(t, running.Contains(Open(at(12, 0))))
	assert.True(t, running.Contains(Closed(at(12, 0), at(23, 0))))
	assert.False(t, running.Contains(Open(at(8, 0))))
}

func TestIntervalClip(t *testing.T) {
	start, end, ok := Closed(at(8, 0), at(18, 0)).Clip(at(9, 0), at(17, 0))
	require.True(t, ok)
	assert.Equal(t, at(9, 0), start)
	assert.Equal(t, at(17, 0), end)

	start, end, ok = Open(at(10, 0)).Clip(at(9, 0), at(12, 0))
	require.True(t, ok)
	assert.Equal(t, at(10, 0), start)
	assert.Equal(t, at(12, 0), end)

	_, _, ok = Closed(at(8, 0), at(9, 0)).Clip(at(9, 0), at(17, 0))
	assert.False(t, ok, "touching the window leaves nothing")
	_, _, ok = Open(at(18, 0)).Clip(at(9, 0), at(17, 0))
	assert.False(t, ok)
}
