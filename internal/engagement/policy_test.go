package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryNthGatesAtMultiples(t *testing.T) {
	p := EveryNth(3)

	gated := map[int]bool{3: true, 6: true, 9: true}
	for count := 1; count <= 10; count++ {
		assert.Equalf(t, gated[count], p.ShouldGate(count), "count %d", count)
	}
}

func TestAfterThresholdGatesPastThreshold(t *testing.T) {
	p := AfterThreshold(3)

	for count := 1; count <= 6; count++ {
		assert.Equalf(t, count > 3, p.ShouldGate(count), "count %d", count)
	}
}

func TestPoliciesIgnoreNonPositiveCounts(t *testing.T) {
	assert.False(t, EveryNth(3).ShouldGate(0))
	assert.False(t, AfterThreshold(0).ShouldGate(0))
	assert.False(t, EveryNth(3).ShouldGate(-3))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "every_nth(3)", EveryNth(3).String())
	assert.Equal(t, "after_threshold(3)", AfterThreshold(3).String())
}
