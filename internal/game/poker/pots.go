package poker

// Pot is one layer of the hand's money: an amount plus the seat indexes
// allowed to win it. Folded players' chips stay in the layers they paid
// into but folded seats are never eligible.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// buildPots partitions the hand's contributions into a main pot and side
// pots. Each iteration peels the smallest remaining contribution level off
// every contributor, so every chip lands in exactly one pot and an all-in
// player is eligible only up to their own level.
func buildPots(contribs []int, folded []bool) []Pot {
	remaining := make([]int, len(contribs))
	copy(remaining, contribs)

	var pots []Pot
	for {
		level := 0
		for _, c := range remaining {
			if c > 0 && (level == 0 || c < level) {
				level = c
			}
		}
		if level == 0 {
			break
		}

		pot := Pot{}
		for i, c := range remaining {
			if c <= 0 {
				continue
			}
			take := level
			if c < take {
				take = c
			}
			pot.Amount += take
			remaining[i] -= take
			if !folded[i] {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		pots = append(pots, pot)
	}

	return mergeSameEligibility(pots)
}

// mergeSameEligibility collapses adjacent layers with identical winner
// sets, so everyone-folded-to-one hands show a single pot.
func mergeSameEligibility(pots []Pot) []Pot {
	var out []Pot
	for _, p := range pots {
		n := len(out)
		if n > 0 && sameEligible(out[n-1].Eligible, p.Eligible) {
			out[n-1].Amount += p.Amount
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameEligible(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// potTotal sums every layer; used by the conservation checks and views.
func potTotal(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
