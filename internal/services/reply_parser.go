package services

import (
	"regexp"
	"strings"

	"finmemory/internal/models"
)

const minContinuationRunes = 10

var numberedItemPattern = regexp.MustCompile(`^\d+\.`)

// sectionRule switches the active section when a line carries the glyph
// together with at least one disambiguating keyword. Rules are evaluated
// top to bottom, first match wins.
type sectionRule struct {
	glyph    string
	keywords []string
	section  string
}

type priorityRule struct {
	glyph    string
	priority string
}

var sectionRules = []sectionRule{
	{glyph: "🔥", keywords: []string{"сейчас", "now", "сегодня"}, section: models.SectionNow},
	{glyph: "📆", keywords: []string{"месяц", "month", "этом"}, section: models.SectionThisMonth},
	{glyph: "🔮", keywords: []string{"будущее", "future", "будущем"}, section: models.SectionFuture},
}

var priorityRules = []priorityRule{
	{glyph: "🚨", priority: models.PriorityUrgent},
	{glyph: "⚡", priority: models.PriorityQuickWin},
	{glyph: "📅", priority: models.PriorityLongTerm},
	{glyph: "✅", priority: models.PriorityActionable},
}

var headingMarkers = []string{"##", "###", "🚦", "🚩", "🛠", "📈", "📊", "🤝"}

type replyParser struct{}

// NewReplyParser creates a new ReplyParserInterface instance
func NewReplyParser() ReplyParserInterface {
	return &replyParser{}
}

// ParseActionableItems scans free-form assistant output line by line and
// extracts numbered and bulleted advice entries, tagging each with the
// section and priority inferred from the surrounding heading lines. The
// parser never fails: unrecognizable input yields an empty list.
func (p *replyParser) ParseActionableItems(reply string) []models.ActionItem {
	var items []models.ActionItem
	var open *models.ActionItem

	section := models.SectionGeneral
	priority := models.PriorityNormal

	flush := func() {
		if open != nil {
			items = append(items, *open)
			open = nil
		}
	}

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}

		itemType, isItem := listItemType(line)
		if isItem {
			flush()
			open = &models.ActionItem{
				Text:     line,
				Type:     itemType,
				Section:  section,
				Priority: itemPriority(line, priority),
			}
			continue
		}

		if s, ok := matchSection(line); ok {
			section = s
			continue
		}

		if pr, ok := matchPriority(line); ok {
			priority = pr
			continue
		}

		if isHeading(line) {
			flush()
			continue
		}

		// Continuation of the open item. Short fragments and embedded
		// table rows are skipped without closing the item.
		if open != nil {
			if len([]rune(line)) > minContinuationRunes && !strings.HasPrefix(line, "|") {
				open.Text += " " + line
			}
			continue
		}
	}

	flush()
	return items
}

func listItemType(line string) (string, bool) {
	if numberedItemPattern.MatchString(line) {
		return models.ItemTypeNumbered, true
	}
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
		return models.ItemTypeBullet, true
	}
	return "", false
}

func matchSection(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, rule := range sectionRules {
		if !strings.Contains(line, rule.glyph) {
			continue
		}
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.section, true
			}
		}
	}
	return "", false
}

func matchPriority(line string) (string, bool) {
	for _, rule := range priorityRules {
		if strings.Contains(line, rule.glyph) {
			return rule.priority, true
		}
	}
	return "", false
}

func itemPriority(line, active string) string {
	for _, rule := range priorityRules {
		if strings.Contains(line, rule.glyph) {
			return rule.priority
		}
	}
	if active != "" {
		return active
	}
	return models.PriorityNormal
}

func isHeading(line string) bool {
	for _, marker := range headingMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
