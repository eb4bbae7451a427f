package poker

import (
	"errors"
	"fmt"
	"slices"
)

// Category is the class of a five card hand, ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the category name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ErrInvalidInput is returned when the evaluator is given an unusable card set.
var ErrInvalidInput = errors.New("invalid input")

// HandEvaluation is the strength of the best five card hand found.
// Tiebreak is only meaningful between evaluations of the same category.
type HandEvaluation struct {
	Category Category `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
	Best     [5]Card  `json:"best"`
}

// String describes the evaluation, e.g. "Straight (5 high)".
func (e HandEvaluation) String() string {
	return fmt.Sprintf("%s [%s]", e.Category, FormatCards(e.Best[:]))
}

// Compare orders two evaluations: positive if a beats b, negative if b beats a
// and zero on a tie. Missing trailing tiebreak values count as zero.
func Compare(a, b HandEvaluation) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	n := max(len(a.Tiebreak), len(b.Tiebreak))
	for i := range n {
		var av, bv int
		if i < len(a.Tiebreak) {
			av = a.Tiebreak[i]
		}
		if i < len(b.Tiebreak) {
			bv = b.Tiebreak[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// EvaluateBest finds the strongest five card hand among 5 to 7 cards by
// checking every five card subset.
func EvaluateBest(cards []Card) (HandEvaluation, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandEvaluation{}, fmt.Errorf("%w: need 5 to 7 cards, got %d", ErrInvalidInput, len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return HandEvaluation{}, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
		if seen[c] {
			return HandEvaluation{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
		}
		seen[c] = true
	}

	var best HandEvaluation
	found := false
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						eval := evaluateFive([5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if !found || Compare(eval, best) > 0 {
							best = eval
							found = true
						}
					}
				}
			}
		}
	}
	return best, nil
}

// MustEvaluate is EvaluateBest for callers that already validated the input.
func MustEvaluate(cards []Card) HandEvaluation {
	eval, err := EvaluateBest(cards)
	if err != nil {
		panic(err)
	}
	return eval
}

type rankGroup struct {
	value int
	count int
}

func evaluateFive(hand [5]Card) HandEvaluation {
	// Best holds the cards strongest first for display.
	slices.SortFunc(hand[:], func(x, y Card) int {
		return int(y.Rank) - int(x.Rank)
	})

	values := make([]int, 5)
	for i, c := range hand {
		values[i] = int(c.Rank)
	}

	var counts [15]int
	for _, v := range values {
		counts[v]++
	}
	groups := make([]rankGroup, 0, 5)
	for v := int(Ace); v >= int(Two); v-- {
		if counts[v] > 0 {
			groups = append(groups, rankGroup{value: v, count: counts[v]})
		}
	}
	// Larger groups first, then higher ranks.
	slices.SortStableFunc(groups, func(x, y rankGroup) int {
		return y.count - x.count
	})

	flush := true
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			flush = false
			break
		}
	}
	straight, high := straightHigh(values)

	eval := HandEvaluation{Best: hand}
	switch {
	case straight && flush:
		eval.Category = StraightFlush
		if high == int(Ace) {
			eval.Category = RoyalFlush
		}
		eval.Tiebreak = []int{high}
	case groups[0].count == 4:
		eval.Category = FourOfAKind
		eval.Tiebreak = []int{groups[0].value, groups[1].value}
	case groups[0].count == 3 && groups[1].count == 2:
		eval.Category = FullHouse
		eval.Tiebreak = []int{groups[0].value, groups[1].value}
	case flush:
		eval.Category = Flush
		eval.Tiebreak = values
	case straight:
		eval.Category = Straight
		eval.Tiebreak = []int{high}
	case groups[0].count == 3:
		eval.Category = ThreeOfAKind
		eval.Tiebreak = []int{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2 && groups[1].count == 2:
		eval.Category = TwoPair
		eval.Tiebreak = []int{groups[0].value, groups[1].value, groups[2].value}
	case groups[0].count == 2:
		eval.Category = OnePair
		eval.Tiebreak = []int{groups[0].value, groups[1].value, groups[2].value, groups[3].value}
	default:
		eval.Category = HighCard
		eval.Tiebreak = values
	}

	if straight && high == int(Five) {
		// Wheel: show the ace last.
		eval.Best = [5]Card{hand[1], hand[2], hand[3], hand[4], hand[0]}
	}
	return eval
}

// straightHigh looks for five consecutive distinct values, treating the ace
// as both 14 and 1. The wheel reports a high card of 5.
func straightHigh(desc []int) (bool, int) {
	distinct := make([]int, 0, 6)
	for _, v := range desc {
		if len(distinct) == 0 || distinct[len(distinct)-1] != v {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) > 0 && distinct[0] == int(Ace) {
		distinct = append(distinct, 1)
	}
	for i := 0; i+5 <= len(distinct); i++ {
		if distinct[i]-distinct[i+4] == 4 {
			return true, distinct[i]
		}
	}
	return false, 0
}
