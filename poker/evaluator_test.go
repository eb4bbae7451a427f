package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, cards string) HandEvaluation {
	t.Helper()
	e, err := EvaluateBest(MustParseCards(cards))
	require.NoError(t, err)
	return e
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		category Category
		tiebreak []int
	}{
		{"royal flush", "As Ks Qs Js Ts 2d 3c", RoyalFlush, []int{14}},
		{"straight flush", "9h 8h 7h 6h 5h Ac Ad", StraightFlush, []int{9}},
		{"steel wheel", "Ad 2d 3d 4d 5d Kc Qh", StraightFlush, []int{5}},
		{"quads with best kicker", "7s 7h 7d 7c 2s Kd 9h", FourOfAKind, []int{7, 13}},
		{"full house", "Qs Qh Qd 4c 4s 9d 2h", FullHouse, []int{12, 4}},
		{"full house from two trips", "Qs Qh Qd 4c 4s 4d 2h", FullHouse, []int{12, 4}},
		{"flush keeps top five", "Ah Jh 9h 6h 3h 2h Kd", Flush, []int{14, 11, 9, 6, 3}},
		{"broadway straight", "Ac Kd Qh Js Tc 2c 3d", Straight, []int{14}},
		{"wheel", "As 2h 3d 4c 5s", Straight, []int{5}},
		{"six high beats wheel window", "As 2h 3d 4c 5s 6h Kc", Straight, []int{6}},
		{"trips", "8s 8h 8d Kc 2s 5d Jh", ThreeOfAKind, []int{8, 13, 11}},
		{"two pair picks best kicker", "Ks Kh 5d 5c 3s 3d Qh", TwoPair, []int{13, 5, 12}},
		{"one pair", "Js Jh 9d 7c 4s 3d 2h", OnePair, []int{11, 9, 7, 4}},
		{"high card", "As Jh 9d 7c 4s 3d 2h", HighCard, []int{14, 11, 9, 7, 4}},
		{"five cards only", "2s 4h 6d 8c Ts", HighCard, []int{10, 8, 6, 4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := eval(t, tt.cards)
			assert.Equal(t, tt.category, e.Category, "category for %s", tt.cards)
			assert.Equal(t, tt.tiebreak, e.Tiebreak, "tiebreak for %s", tt.cards)
		})
	}
}

func TestWheelReportsFiveHigh(t *testing.T) {
	t.Parallel()

	e := eval(t, "As 2h 3d 4c 5s")
	assert.Equal(t, Straight, e.Category)
	assert.Equal(t, []int{5}, e.Tiebreak)
	assert.Equal(t, "5s 4c 3d 2h As", FormatCards(e.Best[:]))

	six := eval(t, "2h 3d 4c 5s 6d")
	assert.Greater(t, Compare(six, e), 0, "six-high straight beats the wheel")
}

func TestBestFiveCards(t *testing.T) {
	t.Parallel()

	e := eval(t, "Kh Kd 9s 9c 2h 3d Ah")
	assert.Equal(t, TwoPair, e.Category)
	assert.ElementsMatch(t, MustParseCards("Kh Kd 9s 9c Ah"), e.Best[:])
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()

	// Strongest hand of each weaker category against the weakest of the next.
	ladder := []string{
		"As Kd Qh Jc 9s",  // high card
		"2s 2h 3d 4c 5h",  // one pair, lowest
		"2s 2h 3d 3c 4h",  // two pair
		"2s 2h 2d 3c 4h",  // trips
		"As 2h 3d 4c 5s",  // wheel
		"2h 3h 4h 5h 7h",  // weakest flush
		"2s 2h 2d 3c 3h",  // weakest full house
		"2s 2h 2d 2c 3h",  // weakest quads
		"As 2s 3s 4s 5s",  // steel wheel
		"As Ks Qs Js Ts",  // royal
	}
	for i := 1; i < len(ladder); i++ {
		lo := eval(t, ladder[i-1])
		hi := eval(t, ladder[i])
		assert.Greater(t, Compare(hi, lo), 0, "%s should beat %s", ladder[i], ladder[i-1])
		assert.Less(t, Compare(lo, hi), 0)
	}

	// Raw rank sums do not matter.
	aceFlush := eval(t, "Ah Kh Qh Jh 9h")
	lowFullHouse := eval(t, "2c 2d 2s 3c 3d")
	broadway := eval(t, "Ac Kd Qh Js Ts")
	lowFlush := eval(t, "2h 3h 4h 5h 7h")
	assert.Greater(t, Compare(lowFullHouse, aceFlush), 0)
	assert.Greater(t, Compare(lowFlush, broadway), 0)
}

func TestCompareTies(t *testing.T) {
	t.Parallel()

	a := eval(t, "As Kd Qh Jc 9s 2c 3c")
	b := eval(t, "Ac Kh Qd Js 9h 2d 3d")
	assert.Equal(t, 0, Compare(a, b))

	kicker := eval(t, "As Ad Kh 7c 5s")
	weaker := eval(t, "Ah Ac Qh 7d 5d")
	assert.Greater(t, Compare(kicker, weaker), 0)

	// Missing trailing values are treated as zero.
	short := HandEvaluation{Category: HighCard, Tiebreak: []int{14}}
	long := HandEvaluation{Category: HighCard, Tiebreak: []int{14, 0}}
	assert.Equal(t, 0, Compare(short, long))
}

func TestEvaluateInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := EvaluateBest(MustParseCards("As Kd Qh Jc"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EvaluateBest(MustParseCards("As Kd Qh Jc Ts 9s 8s 7s"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EvaluateBest(MustParseCards("As As Qh Jc Ts"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EvaluateBest([]Card{{}, {}, {}, {}, {}})
	assert.ErrorIs(t, err, ErrInvalidCard)

	assert.Panics(t, func() { MustEvaluate(nil) })
}
