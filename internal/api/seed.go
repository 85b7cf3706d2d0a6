package api

import (
	"context"
	"fmt"

	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/model"
)

// Default site content, installed into any category whose store is empty
// so a fresh deployment has something to show. IDs are assigned by the
// persistence layer like any other record.

var defaultEvents = []model.Item{
	{
		Title:       "Annual Kingdom Conference",
		Date:        "2024-08-15",
		Time:        "10:00 AM",
		Location:    "Nairobi Main Hall",
		Description: "Join us for three days of powerful worship, teaching, and impartation with guest speakers from around the world.",
		ImageURL:    "https://images.unsplash.com/photo-1511632765486-a01980e01a18?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Featured:    true,
	},
	{
		Title:       "Youth Revival Night",
		Date:        "2024-09-02",
		Time:        "6:00 PM",
		Location:    "KMCI Center",
		Description: "An evening dedicated to the next generation. Music, word, and fellowship for young adults and teenagers.",
		ImageURL:    "https://images.unsplash.com/photo-1529070538774-1843cb3265df?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	},
}

var defaultSermons = []model.Item{
	{
		Title:       "Walking in Divine Authority",
		Speaker:     "Apostle John Doe",
		Date:        "2024-08-12",
		Duration:    "45 min",
		Thumbnail:   "https://images.unsplash.com/photo-1478147427282-58a87a120781?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Featured:    true,
		Description: "An empowering message on understanding and walking in the authority given to believers.",
	},
	{
		Title:       "The Power of Prayer",
		Speaker:     "Pastor Jane Doe",
		Date:        "2024-08-05",
		Duration:    "52 min",
		Thumbnail:   "https://images.unsplash.com/photo-1543791187-df796fa110af?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Description: "Discover the transformative power of a consistent prayer life.",
	},
	{
		Title:       "Understanding Grace",
		Speaker:     "Rev. Michael Smith",
		Date:        "2024-07-29",
		Duration:    "38 min",
		Thumbnail:   "https://images.unsplash.com/photo-1507692049790-de58293a469d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Description: "A deep dive into the concept of grace and how it applies to our daily lives.",
	},
	{
		Title:       "Kingdom Finance",
		Speaker:     "Apostle John Doe",
		Date:        "2024-07-22",
		Duration:    "60 min",
		Thumbnail:   "https://images.unsplash.com/photo-1621508654686-809f23efdabc?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Description: "Biblical principles for managing finances and prospering in God's kingdom.",
	},
}

var defaultNews = []model.Item{
	{
		Title:       "Community Food Drive",
		Date:        "2024-09-15",
		Description: "Join us as we collect non-perishable food items for local families in need.",
		ImageURL:    "https://images.unsplash.com/photo-1593113598332-cd288d649433?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Featured:    true,
	},
	{
		Title:       "Mid-Week Bible Study Resumes",
		Date:        "2024-09-20",
		Description: "Our Wednesday night Bible study series on the Book of Acts resumes this week.",
		ImageURL:    "https://images.unsplash.com/photo-1491841550275-ad7854e35ca6?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	},
}

var seedContent = map[model.Category][]model.Item{
	model.CategoryEvent:        defaultEvents,
	model.CategorySermon:       defaultSermons,
	model.CategoryAnnouncement: defaultNews,
}

// Seed installs the default content into every category whose collection
// is currently empty. Categories that already hold records are left alone.
func (a *API) Seed(ctx context.Context) error {
	for _, category := range model.Categories {
		items, err := a.db.GetItems(ctx, category)
		if err != nil {
			return fmt.Errorf("seed %s: %w", category.StoreName(), err)
		}
		if len(items) > 0 {
			continue
		}
		count, err := a.db.CreateItems(ctx, category, seedContent[category])
		if err != nil {
			return fmt.Errorf("seed %s: %w", category.StoreName(), err)
		}
		logger.Info("seeded default content", map[string]any{
			"category": category, "count": count,
		})
	}
	return nil
}
