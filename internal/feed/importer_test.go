package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmci-church/cms/internal/model"
)

const sermonFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
  <title>KMCI Sermons</title>
  <link>https://example.com</link>
  <description>Weekly messages</description>
  <image>
    <url>https://example.com/cover.jpg</url>
    <title>KMCI Sermons</title>
    <link>https://example.com</link>
  </image>
  <item>
    <title>Walking in Faith</title>
    <description>A message on faith.</description>
    <link>https://example.com/sermons/1</link>
    <pubDate>Mon, 12 Aug 2024 10:00:00 GMT</pubDate>
    <itunes:author>Apostle John Doe</itunes:author>
    <itunes:duration>45:00</itunes:duration>
    <enclosure url="https://example.com/sermons/1.mp4" type="video/mp4" length="100"/>
  </item>
  <item>
    <title>No Description Here</title>
  </item>
  <item>
    <title>Fallback Fields</title>
    <description>Uses channel-level defaults.</description>
    <link>https://example.com/sermons/2</link>
  </item>
</channel>
</rss>`

func TestParseSermonsMapsFields(t *testing.T) {
	sermons, err := NewImporter().ParseSermons(sermonFeed)
	require.NoError(t, err)
	require.Len(t, sermons, 2, "entries without required fields are skipped")

	first := sermons[0]
	assert.Equal(t, model.CategorySermon, first.Category)
	assert.Equal(t, "Walking in Faith", first.Title)
	assert.Equal(t, "A message on faith.", first.Description)
	assert.Equal(t, "2024-08-12", first.Date)
	assert.Equal(t, "Apostle John Doe", first.Speaker)
	assert.Equal(t, "45:00", first.Duration)
	assert.Equal(t, "https://example.com/sermons/1.mp4", first.VideoURL)
	assert.Empty(t, first.ID, "ids belong to the persistence layer")

	second := sermons[1]
	assert.Equal(t, "KMCI Sermons", second.Speaker, "speaker falls back to the feed title")
	assert.Equal(t, "https://example.com/cover.jpg", second.Thumbnail, "thumbnail falls back to the channel image")
	assert.Equal(t, "https://example.com/sermons/2", second.VideoURL, "link stands in for a missing enclosure")
}

func TestParseSermonsRejectsGarbage(t *testing.T) {
	_, err := NewImporter().ParseSermons("not a feed at all")
	assert.Error(t, err)
}
