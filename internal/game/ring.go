package game

// nextSeat scans clockwise from the seat after from, wrapping once around
// the table, and returns the first seat accepted by match. The scan can end
// on from itself. It returns NoSeat when no seat matches.
func nextSeat(players []Player, from int, match func(Player) bool) int {
	n := len(players)
	if n == 0 {
		return NoSeat
	}
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if match(players[idx]) {
			return idx
		}
	}
	return NoSeat
}

func isActive(p Player) bool { return p.Status == StatusActive && p.Chips > 0 }

func isSeated(p Player) bool { return p.Status != StatusOut }

func isLive(p Player) bool { return p.Status.Live() }

func countSeats(players []Player, match func(Player) bool) int {
	n := 0
	for _, p := range players {
		if match(p) {
			n++
		}
	}
	return n
}
