//go:build unit

package policy_test

import (
	"testing"

	"booking-lifecycle/internal/domain/policy"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	short, long *policy.CancellationPolicy
}

func (s stubSource) ShortPolicy() *policy.CancellationPolicy { return s.short }
func (s stubSource) LongPolicy() *policy.CancellationPolicy  { return s.long }

func TestResolve(t *testing.T) {
	short := &policy.CancellationPolicy{ID: "s", Type: policy.TypeShort, GroupName: "Strict Short Term"}
	long := &policy.CancellationPolicy{ID: "l", Type: policy.TypeLong, GroupName: "Strict Long Term"}
	both := stubSource{short: short, long: long}

	t.Run("short stay selects short-term policy", func(t *testing.T) {
		assert.Same(t, short, policy.Resolve(1, both))
		assert.Same(t, short, policy.Resolve(27, both))
	})

	t.Run("28 nights or more selects long-term policy", func(t *testing.T) {
		assert.Same(t, long, policy.Resolve(28, both))
		assert.Same(t, long, policy.Resolve(90, both))
	})

	t.Run("missing policy of selected type is nil", func(t *testing.T) {
		assert.Nil(t, policy.Resolve(30, stubSource{short: short}))
		assert.Nil(t, policy.Resolve(3, stubSource{long: long}))
	})

	t.Run("nil source", func(t *testing.T) {
		assert.Nil(t, policy.Resolve(3, nil))
	})

	t.Run("type for nights", func(t *testing.T) {
		assert.Equal(t, policy.TypeShort, policy.TypeFor(policy.LongStayThresholdNights-1))
		assert.Equal(t, policy.TypeLong, policy.TypeFor(policy.LongStayThresholdNights))
	})
}
