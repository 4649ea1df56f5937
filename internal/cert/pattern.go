package cert

// Compositions enumerates every ordered composition of total into length
// positive parts, each at most maxPart, calling visit once per composition.
// Enumeration is lazy: the search space grows combinatorially, so nothing is
// materialized. Returning false from visit stops the enumeration.
//
// The slice passed to visit is reused between calls; visit must copy it if
// it retains the pattern.
//
// The recursion is branch-and-bound: at each slot the admissible part range
// is clamped by the remaining budget and the remaining slots
// (min = max(1, remaining-maxPart*(slots-1)), max = min(maxPart,
// remaining-(slots-1))), so dead branches are never descended into.
func Compositions(length, total, maxPart int, visit func(parts []int) bool) {
	if length < 1 || total < 1 || maxPart < 1 {
		return
	}
	parts := make([]int, 0, length)
	var descend func(remaining, slots int) bool
	descend = func(remaining, slots int) bool {
		if slots == 1 {
			if remaining < 1 || remaining > maxPart {
				return true
			}
			parts = append(parts, remaining)
			keepGoing := visit(parts)
			parts = parts[:len(parts)-1]
			return keepGoing
		}
		minPart := remaining - maxPart*(slots-1)
		if minPart < 1 {
			minPart = 1
		}
		maxAllowed := remaining - (slots - 1)
		if maxAllowed > maxPart {
			maxAllowed = maxPart
		}
		for part := minPart; part <= maxAllowed; part++ {
			parts = append(parts, part)
			keepGoing := descend(remaining-part, slots-1)
			parts = parts[:len(parts)-1]
			if !keepGoing {
				return false
			}
		}
		return true
	}
	descend(total, length)
}
