// Package engagement decides, per content domain, whether a content open
// must run the rewarded-ad flow first. Counters are session-scoped; each
// domain carries its own gating policy.
package engagement

import "fmt"

// Policy decides from a post-increment open count whether the reward flow
// must run. The two variants are distinct product rules, one per content
// domain; they are deliberately not unified.
type Policy struct {
	kind      policyKind
	n         int
	threshold int
}

type policyKind int

const (
	policyEveryNth policyKind = iota
	policyAfterThreshold
)

// EveryNth gates every nth open in the session: counts n, 2n, 3n, ...
func EveryNth(n int) Policy {
	if n < 1 {
		n = 1
	}
	return Policy{kind: policyEveryNth, n: n}
}

// AfterThreshold gates every open once the count exceeds t: the first t
// opens are free, everything after is gated.
func AfterThreshold(t int) Policy {
	if t < 0 {
		t = 0
	}
	return Policy{kind: policyAfterThreshold, threshold: t}
}

// ShouldGate evaluates the policy against a post-increment count.
func (p Policy) ShouldGate(count int) bool {
	if count <= 0 {
		return false
	}
	switch p.kind {
	case policyEveryNth:
		return count%p.n == 0
	case policyAfterThreshold:
		return count > p.threshold
	default:
		return false
	}
}

func (p Policy) String() string {
	switch p.kind {
	case policyEveryNth:
		return fmt.Sprintf("every_nth(%d)", p.n)
	case policyAfterThreshold:
		return fmt.Sprintf("after_threshold(%d)", p.threshold)
	default:
		return "none"
	}
}
