// Package feed maps podcast/video RSS feeds onto sermon records.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kmci-church/cms/internal/model"
)

// Importer parses a feed and turns its entries into sermon payloads ready
// for a batch insert. IDs are left unassigned; the persistence layer owns
// them.
type Importer struct {
	parser *gofeed.Parser
}

// NewImporter creates an importer with a default parser.
func NewImporter() *Importer {
	return &Importer{parser: gofeed.NewParser()}
}

// FetchSermons downloads and parses the feed at url.
func (imp *Importer) FetchSermons(ctx context.Context, url string) ([]model.Item, error) {
	parsed, err := imp.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}
	return imp.mapFeed(parsed), nil
}

// ParseSermons maps an already-fetched feed document, mostly for tests.
func (imp *Importer) ParseSermons(raw string) ([]model.Item, error) {
	parsed, err := imp.parser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return imp.mapFeed(parsed), nil
}

func (imp *Importer) mapFeed(parsed *gofeed.Feed) []model.Item {
	var sermons []model.Item
	for _, entry := range parsed.Items {
		description := entry.Description
		if description == "" {
			description = entry.Content
		}
		// Entries without the required fields would fail the whole batch.
		if entry.Title == "" || description == "" {
			continue
		}

		date := time.Now().UTC()
		if entry.PublishedParsed != nil {
			date = *entry.PublishedParsed
		}

		speaker := ""
		duration := ""
		thumbnail := ""
		if entry.ITunesExt != nil {
			speaker = entry.ITunesExt.Author
			duration = entry.ITunesExt.Duration
			thumbnail = entry.ITunesExt.Image
		}
		if speaker == "" && entry.Author != nil {
			speaker = entry.Author.Name
		}
		if speaker == "" {
			speaker = parsed.Title
		}
		if thumbnail == "" && entry.Image != nil {
			thumbnail = entry.Image.URL
		}
		if thumbnail == "" && parsed.Image != nil {
			thumbnail = parsed.Image.URL
		}

		videoURL := entry.Link
		for _, enc := range entry.Enclosures {
			if enc != nil && enc.URL != "" {
				videoURL = enc.URL
				break
			}
		}

		sermons = append(sermons, model.Item{
			Category:    model.CategorySermon,
			Title:       entry.Title,
			Date:        date.Format("2006-01-02"),
			Description: description,
			Speaker:     speaker,
			Duration:    duration,
			Thumbnail:   thumbnail,
			VideoURL:    videoURL,
		})
	}
	return sermons
}
