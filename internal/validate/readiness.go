package validate

import (
	"github.com/roach88/launchcheck/internal/launch"
)

// ContainsSentinel reports whether a ReadyToTest action is reachable in
// desc through any number of groups, conditional or not. It stops at the
// first sentinel found. A nil or empty description has none.
func ContainsSentinel(desc *launch.Description) bool {
	found := false
	launch.Walk(desc, func(e launch.Entity, _ int) bool {
		if e.Kind() == launch.KindReadyToTest {
			found = true
			return false
		}
		return true
	})
	return found
}

// RequireSentinel fails with KindMissingReadySentinel if desc contains no
// ReadyToTest action. Additional sentinels beyond the first are accepted.
func RequireSentinel(desc *launch.Description) error {
	if !ContainsSentinel(desc) {
		return newMissingReadySentinel()
	}
	return nil
}
