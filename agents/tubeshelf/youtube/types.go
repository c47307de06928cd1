// Package youtube maps the YouTube Data API v3 and the OAuth2 userinfo
// endpoint onto the shapes tubeshelf works with. It keeps no local state and
// never retries.
package youtube

// ChannelInfo is a resolved channel.
type ChannelInfo struct {
	ID                string
	Title             string
	Thumbnail         string
	UploadsPlaylistID string
}

// VideoInfo is a video with the details the library stores.
type VideoInfo struct {
	ID           string
	Title        string
	ChannelID    string
	ChannelTitle string
	Thumbnail    string
	PublishedAt  string
	Duration     string
}

// Subscription is one channel the signed-in user subscribes to.
type Subscription struct {
	ChannelID string
	Title     string
	Thumbnail string
}

// SubscriptionPage is one page of the user's subscriptions.
type SubscriptionPage struct {
	Items         []Subscription
	NextPageToken string
	// TotalResults is the count the API claims; it can exceed what pagination returns.
	TotalResults int64
}
