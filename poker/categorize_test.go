package poker

import "testing"

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hole     string
		expected HoleCardCategory
	}{
		{"Pocket Aces", "As Ah", CategoryPremium},
		{"Pocket Jacks", "Jh Jd", CategoryPremium},
		{"Ace King offsuit", "Ac Kh", CategoryPremium},
		{"Pocket Tens", "Tc Th", CategoryStrong},
		{"Ace Queen suited", "As Qs", CategoryStrong},
		{"Ace Jack offsuit", "Ad Jc", CategoryStrong},
		{"Pocket Sevens", "7h 7c", CategoryMedium},
		{"King Queen suited", "Ks Qs", CategoryMedium},
		{"Pocket Twos", "2c 2h", CategoryWeak},
		{"Suited connectors 76s", "7h 6h", CategoryWeak},
		{"Seven Two offsuit", "7c 2h", CategoryTrash},
		{"Jack Four offsuit", "Jh 4c", CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CategorizeHoleCards(MustParseCards(tt.hole))
			if got != tt.expected {
				t.Errorf("CategorizeHoleCards(%s) = %s, want %s", tt.hole, got, tt.expected)
			}
		})
	}
}

func TestCategorizeHoleCardsUnknown(t *testing.T) {
	t.Parallel()

	if got := CategorizeHoleCards(nil); got != CategoryUnknown {
		t.Errorf("expected Unknown for no cards, got %s", got)
	}
	if got := CategorizeHoleCards([]Card{{}, {}}); got != CategoryUnknown {
		t.Errorf("expected Unknown for zero cards, got %s", got)
	}
}
