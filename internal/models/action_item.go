package models

import "time"

// Action item list types
const (
	ItemTypeNumbered = "numbered"
	ItemTypeBullet   = "bullet"
)

// Action item sections, matching the tags the prompt asks the model to use
const (
	SectionNow       = "now"
	SectionThisMonth = "this_month"
	SectionFuture    = "future"
	SectionGeneral   = "general"
)

// Action item priorities
const (
	PriorityUrgent     = "urgent"
	PriorityQuickWin   = "quick_win"
	PriorityLongTerm   = "long_term"
	PriorityActionable = "actionable"
	PriorityNormal     = "normal"
)

// ActionItem is a structured recommendation extracted from free-form reply
// text. It never cross-references bucket or alert data.
type ActionItem struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Section  string `json:"section"`
	Priority string `json:"priority"`
}

// AdviceResult bundles the raw model reply with the action items parsed out
// of it.
type AdviceResult struct {
	Reply       string       `json:"reply"`
	Items       []ActionItem `json:"items"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// CircuitBreakerState tracks the advisor call breaker
type CircuitBreakerState int
