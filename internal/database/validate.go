package database

import (
	"strings"
	"time"

	"github.com/kmci-church/cms/internal/model"
)

// requirement is one category-specific validation rule.
type requirement struct {
	code    Code
	message string
	present func(model.Item) bool
}

func nonEmpty(get func(model.Item) string) func(model.Item) bool {
	return func(it model.Item) bool {
		return strings.TrimSpace(get(it)) != ""
	}
}

var baseRequirements = []requirement{
	{CodeTitleRequired, "Title is required", nonEmpty(func(it model.Item) string { return it.Title })},
	{CodeDateRequired, "Date is required", nonEmpty(func(it model.Item) string { return it.Date })},
	{CodeDescriptionRequired, "Description is required", nonEmpty(func(it model.Item) string { return it.Description })},
}

// requirements is the closed validation table, keyed by category tag.
// Both backends route through the same table before any write.
var requirements = map[model.Category][]requirement{
	model.CategoryEvent: append(baseRequirements[:len(baseRequirements):len(baseRequirements)],
		requirement{CodeTimeRequired, "Time is required for events", nonEmpty(func(it model.Item) string { return it.Time })},
		requirement{CodeLocationRequired, "Location is required for events", nonEmpty(func(it model.Item) string { return it.Location })},
	),
	model.CategorySermon: append(baseRequirements[:len(baseRequirements):len(baseRequirements)],
		requirement{CodeSpeakerRequired, "Speaker is required for sermons", nonEmpty(func(it model.Item) string { return it.Speaker })},
	),
	model.CategoryAnnouncement: baseRequirements,
}

// validateItem runs the category's rules against the raw input, failing
// fast with the first violated rule.
func validateItem(category model.Category, item model.Item) error {
	for _, req := range requirements[category] {
		if !req.present(item) {
			return newError(req.code, req.message)
		}
	}
	return nil
}

// normalizeItem produces the canonical record for a category: strings
// trimmed, the date coerced to an ISO calendar date, and fields foreign
// to the category dropped. The ID is carried through untouched.
func normalizeItem(category model.Category, item model.Item) model.Item {
	out := model.Item{
		ID:          item.ID,
		Category:    category,
		Title:       strings.TrimSpace(item.Title),
		Date:        normalizeDate(item.Date),
		Description: strings.TrimSpace(item.Description),
		Featured:    item.Featured,
	}
	switch category {
	case model.CategoryEvent:
		out.Time = strings.TrimSpace(item.Time)
		out.Location = strings.TrimSpace(item.Location)
		out.ImageURL = item.ImageURL
	case model.CategorySermon:
		out.Speaker = strings.TrimSpace(item.Speaker)
		out.Duration = strings.TrimSpace(item.Duration)
		out.Thumbnail = item.Thumbnail
		out.VideoURL = item.VideoURL
	default:
		out.ImageURL = item.ImageURL
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// normalizeDate coerces the input to YYYY-MM-DD. An empty input becomes
// today's date; an unparseable one is kept verbatim after trimming, since
// validation only requires the field to be non-empty.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
