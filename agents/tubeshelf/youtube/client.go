package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubeshelf/internal/models"
)

const subscriptionsPageSize = 50

// Client talks to the YouTube Data API with an API key for public lookups and
// with a caller-supplied access token for per-user calls.
type Client struct {
	service          *youtube.Service
	endpoint         string
	userInfoEndpoint string
	extra            []option.ClientOption
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithEndpoint points every Data API call at a different base URL.
func WithEndpoint(url string) ClientOption {
	return func(c *Client) { c.endpoint = url }
}

// WithUserInfoEndpoint points the userinfo call at a different base URL.
func WithUserInfoEndpoint(url string) ClientOption {
	return func(c *Client) { c.userInfoEndpoint = url }
}

// WithClientOptions appends raw google API client options to every service.
func WithClientOptions(opts ...option.ClientOption) ClientOption {
	return func(c *Client) { c.extra = append(c.extra, opts...) }
}

// NewClient creates a client authenticating public calls with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	service, err := youtube.NewService(ctx, c.serviceOptions(c.endpoint, option.WithAPIKey(apiKey))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.service = service
	return c, nil
}

func (c *Client) serviceOptions(endpoint string, auth option.ClientOption) []option.ClientOption {
	opts := []option.ClientOption{auth}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return append(opts, c.extra...)
}

func bearer(accessToken string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// ResolveChannel looks up a channel by canonical ID, or by searching for a
// handle or name first when input is not an ID.
func (c *Client) ResolveChannel(ctx context.Context, input string) (*ChannelInfo, error) {
	channelID := input
	if !IsChannelID(input) {
		resp, err := c.service.Search.List([]string{"snippet"}).
			Type("channel").
			Q(input).
			MaxResults(1).
			Context(ctx).
			Do()
		if err != nil {
			return nil, classify("search.list", err)
		}
		if len(resp.Items) == 0 {
			return nil, fmt.Errorf("search for channel %q: %w", input, ErrNotFound)
		}
		channelID = searchResultChannelID(resp.Items[0])
		if channelID == "" {
			return nil, fmt.Errorf("search for channel %q: %w", input, ErrNotFound)
		}
		log.Printf("Resolved %q to channel %s", input, channelID)
	}

	resp, err := c.service.Channels.List([]string{"snippet", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("channels.list", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	ch := resp.Items[0]
	info := &ChannelInfo{ID: channelID}
	if ch.Id != "" {
		info.ID = ch.Id
	}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
		if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
			info.Thumbnail = ch.Snippet.Thumbnails.Default.Url
		}
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	return info, nil
}

func searchResultChannelID(item *youtube.SearchResult) string {
	if item.Id != nil && item.Id.ChannelId != "" {
		return item.Id.ChannelId
	}
	if item.Snippet != nil {
		return item.Snippet.ChannelId
	}
	return ""
}

// FetchRecentVideos lists up to max items of a playlist, then fetches their
// details in one batched call. An empty playlist yields an empty slice.
func (c *Client) FetchRecentVideos(ctx context.Context, playlistID string, max int64) ([]VideoInfo, error) {
	if max < 1 {
		max = 1
	}
	if max > models.MaxResultsLimit {
		max = models.MaxResultsLimit
	}

	items, err := c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("playlistItems.list", err)
	}

	videoIDs := make([]string, 0, len(items.Items))
	for _, item := range items.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "" {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return []VideoInfo{}, nil
	}

	details, err := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("videos.list", err)
	}

	videos := make([]VideoInfo, 0, len(details.Items))
	for _, item := range details.Items {
		v := VideoInfo{ID: item.Id}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.ChannelID = item.Snippet.ChannelId
			v.ChannelTitle = item.Snippet.ChannelTitle
			v.PublishedAt = item.Snippet.PublishedAt
			v.Thumbnail = videoThumbnail(item.Snippet.Thumbnails)
		}
		if item.ContentDetails != nil {
			v.Duration = item.ContentDetails.Duration
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func videoThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.Medium != nil {
		return t.Medium.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

// FetchSubscriptionsPage fetches one page of the signed-in user's
// subscriptions in alphabetical order, so repeated runs page deterministically.
// Any error reported by the API is returned as ErrAuth.
func (c *Client) FetchSubscriptionsPage(ctx context.Context, accessToken, pageToken string) (*SubscriptionPage, error) {
	service, err := youtube.NewService(ctx, c.serviceOptions(c.endpoint, bearer(accessToken))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	call := service.Subscriptions.List([]string{"snippet"}).
		Mine(true).
		Order("alphabetical").
		MaxResults(subscriptionsPageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("subscriptions.list: %w: %w", ErrAuth, err)
		}
		return nil, classify("subscriptions.list", err)
	}

	page := &SubscriptionPage{
		Items:         make([]Subscription, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil {
			continue
		}
		sub := Subscription{
			ChannelID: item.Snippet.ResourceId.ChannelId,
			Title:     item.Snippet.Title,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			sub.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
		page.Items = append(page.Items, sub)
	}
	return page, nil
}

// FetchUserInfo returns the profile of the account that owns accessToken.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (*models.UserInfo, error) {
	service, err := oauth2api.NewService(ctx, c.serviceOptions(c.userInfoEndpoint, bearer(accessToken))...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, classify("userinfo.get", err)
	}
	return &models.UserInfo{
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}
