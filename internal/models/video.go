package models

import "time"

// Video is an ingested upload with cached metadata. Records are first-write-wins:
// a later fetch of the same ID never updates an existing record.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
	Thumbnail   string `json:"thumbnail"`
	PublishedAt string `json:"publishedAt"` // RFC 3339
	Duration    string `json:"duration"`    // ISO 8601, e.g. PT4M13S
	IsFavorite  bool   `json:"isFavorite"`
}

// PublishedTime parses PublishedAt. The zero time is returned for malformed values.
func (v Video) PublishedTime() time.Time {
	t, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// URL returns the watch page of the video.
func (v Video) URL() string {
	return WatchURL(v.ID)
}

// WatchURL returns the watch page for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// Digest lists the uploads a scheduled run discovered.
type Digest struct {
	Date   time.Time `json:"date"`
	Videos []Video   `json:"videos"`
}

// ChannelCount returns the number of distinct channels in the digest.
func (d *Digest) ChannelCount() int {
	seen := make(map[string]struct{}, len(d.Videos))
	for _, v := range d.Videos {
		seen[v.ChannelID] = struct{}{}
	}
	return len(seen)
}
