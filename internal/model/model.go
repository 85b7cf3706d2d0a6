// Package model defines shared data structures.
package model

// Category identifies which physical collection a content record belongs
// to and which validation rules apply.
type Category string

const (
	CategoryEvent        Category = "event"
	CategorySermon       Category = "sermon"
	CategoryAnnouncement Category = "announcement"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryEvent, CategorySermon, CategoryAnnouncement}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEvent, CategorySermon, CategoryAnnouncement:
		return true
	}
	return false
}

// StoreName returns the name of the physical collection backing a category.
func (c Category) StoreName() string {
	switch c {
	case CategoryEvent:
		return "events"
	case CategorySermon:
		return "sermons"
	default:
		return "news"
	}
}

// ParseCategory maps a string (category tag or store name) to a Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "event", "events":
		return CategoryEvent, true
	case "sermon", "sermons":
		return CategorySermon, true
	case "announcement", "announcements", "news":
		return CategoryAnnouncement, true
	}
	return "", false
}

// Item is a single content record. One shape covers all three categories;
// fields that do not apply to a category are left empty and dropped during
// normalization. JSON tags match the persisted wire shape.
type Item struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Date        string   `json:"date"` // ISO calendar date, YYYY-MM-DD
	Description string   `json:"description"`
	Featured    bool     `json:"featured"`

	// Event fields.
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`

	// Sermon fields.
	Speaker   string `json:"speaker,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`

	// Events and announcements. Sermons use Thumbnail instead.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Patch is a partial update to an Item. Nil fields are left unchanged, so
// a zero value ("", false) can still be set deliberately. The category of
// an item is fixed at creation and intentionally absent here.
type Patch struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Featured    *bool   `json:"featured"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Speaker     *string `json:"speaker"`
	Duration    *string `json:"duration"`
	Thumbnail   *string `json:"thumbnail"`
	VideoURL    *string `json:"videoUrl"`
	ImageURL    *string `json:"imageUrl"`
}

// Apply merges the patch into a copy of item and returns it.
func (p Patch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Date != nil {
		item.Date = *p.Date
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Featured != nil {
		item.Featured = *p.Featured
	}
	if p.Time != nil {
		item.Time = *p.Time
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.Speaker != nil {
		item.Speaker = *p.Speaker
	}
	if p.Duration != nil {
		item.Duration = *p.Duration
	}
	if p.Thumbnail != nil {
		item.Thumbnail = *p.Thumbnail
	}
	if p.VideoURL != nil {
		item.VideoURL = *p.VideoURL
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	return item
}
