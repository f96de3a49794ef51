package domain

import "time"

// BadgeRarity classifies a badge for display. No mechanical effect.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is the persisted state of one catalog entry: display metadata
// merged from the catalog plus the user's progress and unlock state.
// Unlocked is monotonic — once true it never goes back.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Rarity      BadgeRarity `json:"rarity"`
	Unlocked    bool        `json:"unlocked"`
	UnlockedAt  *time.Time  `json:"unlocked_at,omitempty"`
	Progress    int         `json:"progress"`
	MaxProgress int         `json:"max_progress,omitempty"` // 0 = no tracked progress
}

// BadgeDef defines one catalog entry and its unlock rule. Progress, when
// set, recomputes the badge's progress from current stats on every sweep
// (clamped to MaxProgress). The unlock condition is Predicate when set,
// Progress >= MaxProgress otherwise. Composite badges are evaluated
// against the states of other badges instead of raw stats.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Rarity      BadgeRarity
	MaxProgress int
	Progress    func(UserStats) int          `json:"-"`
	Predicate   func(UserStats) bool         `json:"-"`
	Composite   func(map[string]Badge) bool  `json:"-"`
}
