package poker

// HoleCardCategory is a coarse preflop strength bucket for two hole cards.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards buckets a starting hand.
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors), Trash (everything else).
func CategorizeHoleCards(hole []Card) HoleCardCategory {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() {
		return CategoryUnknown
	}

	small, big := int(hole[0].Rank), int(hole[1].Rank)
	if small > big {
		small, big = big, small
	}
	suited := hole[0].Suit == hole[1].Suit
	pair := small == big

	switch {
	case pair && small >= int(Jack), small == int(King) && big == int(Ace):
		return CategoryPremium
	case pair && small == int(Ten), big == int(Ace) && (small == int(Queen) || small == int(Jack)):
		return CategoryStrong
	case pair && small >= int(Seven), suited && small >= int(Ten):
		return CategoryMedium
	case pair, suited && big-small <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}
