package services

import "math/rand"

const (
	// Ticket counts per draw round. A recent winner keeps 3 of 4 tickets,
	// a 25% relative down-weight.
	freshWinnerTickets  = 4
	repeatWinnerTickets = 3

	// RecentWinnerLookback is how many of a guild's past giveaways feed the
	// anti-repeat set.
	RecentWinnerLookback = 5
)

// SelectWinners picks up to count winners from entrants without
// replacement. Each round builds a ticket pool where entrants outside
// recentWinners hold 4 tickets and recent winners hold 3, draws one ticket
// uniformly, and removes the drawn entrant from subsequent rounds. Returns
// at most min(count, len(entrants)) winners, no duplicates.
func SelectWinners(entrants []string, count int, recentWinners map[string]bool) []string {
	if len(entrants) == 0 {
		return []string{}
	}

	available := make([]string, len(entrants))
	copy(available, entrants)

	if count > len(available) {
		count = len(available)
	}

	winners := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var weighted []string
		for _, entrant := range available {
			tickets := freshWinnerTickets
			if recentWinners[entrant] {
				tickets = repeatWinnerTickets
			}
			for t := 0; t < tickets; t++ {
				weighted = append(weighted, entrant)
			}
		}

		winner := weighted[rand.Intn(len(weighted))]
		winners = append(winners, winner)

		for j, entrant := range available {
			if entrant == winner {
				available = append(available[:j], available[j+1:]...)
				break
			}
		}
	}

	return winners
}
