// Package syncer orchestrates channel onboarding, per-channel upload refresh
// and subscription import. Every loop is sequential with a pacer between
// requests, and every request observes the caller's context.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tubeshelf/agents/tubeshelf/library"
	"tubeshelf/agents/tubeshelf/youtube"
	"tubeshelf/internal/models"
	"tubeshelf/shared/ratelimit"
)

const (
	DefaultPageDelay    = 100 * time.Millisecond
	DefaultChannelDelay = 200 * time.Millisecond
)

// ErrUnauthenticated is returned when a user-scoped sync runs without an
// active session.
var ErrUnauthenticated = errors.New("not signed in")

// Gateway is the subset of the YouTube API the engine needs.
type Gateway interface {
	ResolveChannel(ctx context.Context, input string) (*youtube.ChannelInfo, error)
	FetchRecentVideos(ctx context.Context, playlistID string, max int64) ([]youtube.VideoInfo, error)
	FetchSubscriptionsPage(ctx context.Context, accessToken, pageToken string) (*youtube.SubscriptionPage, error)
}

// Engine runs sync operations against a library.
type Engine struct {
	gateway      Gateway
	lib          *library.Library
	pagePacer    ratelimit.Pacer
	channelPacer ratelimit.Pacer
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPagePacer sets the pacer used between subscription pages.
func WithPagePacer(p ratelimit.Pacer) Option {
	return func(e *Engine) { e.pagePacer = p }
}

// WithChannelPacer sets the pacer used between channel refreshes.
func WithChannelPacer(p ratelimit.Pacer) Option {
	return func(e *Engine) { e.channelPacer = p }
}

// WithClock overrides the clock used for the session check.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(gateway Gateway, lib *library.Library, opts ...Option) *Engine {
	e := &Engine{
		gateway:      gateway,
		lib:          lib,
		pagePacer:    ratelimit.FixedDelay{Delay: DefaultPageDelay},
		channelPacer: ratelimit.FixedDelay{Delay: DefaultChannelDelay},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddChannel resolves input (channel ID, URL or handle), stores the channel in
// folderID and fetches its recent uploads. Nothing is stored when resolution
// fails. If the channel was stored but the upload fetch failed, the channel is
// returned together with the error and stays pending its next refresh.
func (e *Engine) AddChannel(ctx context.Context, input, folderID string) (models.Channel, int, error) {
	ref, err := youtube.ExtractChannelRef(input)
	if err != nil {
		return models.Channel{}, 0, err
	}
	if youtube.IsChannelID(ref) && e.lib.HasChannel(ref) {
		return models.Channel{}, 0, fmt.Errorf("%w: %s", library.ErrDuplicateChannel, ref)
	}
	if err := e.lib.CheckAssignable(folderID); err != nil {
		return models.Channel{}, 0, err
	}

	info, err := e.gateway.ResolveChannel(ctx, ref)
	if err != nil {
		return models.Channel{}, 0, fmt.Errorf("failed to resolve channel %q: %w", ref, err)
	}

	ch := models.Channel{
		ID:                info.ID,
		Name:              info.Title,
		Thumbnail:         info.Thumbnail,
		FolderID:          folderID,
		UploadsPlaylistID: info.UploadsPlaylistID,
	}
	if err := e.lib.AddChannel(ctx, ch); err != nil {
		return models.Channel{}, 0, err
	}
	log.Printf("Added channel %s (%s)", ch.Name, ch.ID)

	added, err := e.RefreshChannelVideos(ctx, ch.ID)
	if err != nil {
		return ch, 0, fmt.Errorf("channel %s added, but fetching its videos failed: %w", ch.ID, err)
	}
	return ch, added, nil
}

// RefreshChannelVideos fetches the channel's recent uploads and stores the ones
// not seen before. A channel without a known uploads playlist is resolved
// first, and its cached name, thumbnail and playlist are updated. It returns
// the number of new videos.
func (e *Engine) RefreshChannelVideos(ctx context.Context, channelID string) (int, error) {
	ch, ok := e.lib.Channel(channelID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", library.ErrChannelNotFound, channelID)
	}

	if ch.UploadsPlaylistID == "" {
		healed, err := e.resolveUploads(ctx, ch)
		if err != nil {
			log.Printf("Warning: could not resolve uploads playlist for %s, will retry next run: %v", ch.ID, err)
			return 0, err
		}
		ch = healed
	}

	infos, err := e.gateway.FetchRecentVideos(ctx, ch.UploadsPlaylistID, e.lib.Settings().EffectiveMaxResults())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch videos for %s: %w", ch.ID, err)
	}

	videos := make([]models.Video, 0, len(infos))
	for _, info := range infos {
		videos = append(videos, toVideo(info, ch))
	}
	added, err := e.lib.MergeVideos(ctx, videos)
	if err != nil {
		return 0, err
	}
	if added > 0 {
		log.Printf("Stored %d new videos for %s", added, ch.Name)
	}
	return added, nil
}

func (e *Engine) resolveUploads(ctx context.Context, ch models.Channel) (models.Channel, error) {
	log.Printf("Channel %s has no uploads playlist, resolving it", ch.ID)
	info, err := e.gateway.ResolveChannel(ctx, ch.ID)
	if err != nil {
		return ch, fmt.Errorf("failed to resolve channel %s: %w", ch.ID, err)
	}
	if info.UploadsPlaylistID == "" {
		return ch, fmt.Errorf("channel %s has no uploads playlist: %w", ch.ID, youtube.ErrNotFound)
	}

	if err := e.lib.UpdateChannelInfo(ctx, ch.ID, info.Title, info.Thumbnail, info.UploadsPlaylistID); err != nil {
		log.Printf("Warning: failed to cache channel info for %s: %v", ch.ID, err)
	}
	if info.Title != "" {
		ch.Name = info.Title
	}
	if info.Thumbnail != "" {
		ch.Thumbnail = info.Thumbnail
	}
	ch.UploadsPlaylistID = info.UploadsPlaylistID
	return ch, nil
}

func toVideo(info youtube.VideoInfo, ch models.Channel) models.Video {
	v := models.Video{
		ID:          info.ID,
		Title:       info.Title,
		ChannelID:   info.ChannelID,
		ChannelName: info.ChannelTitle,
		Thumbnail:   info.Thumbnail,
		PublishedAt: info.PublishedAt,
		Duration:    info.Duration,
	}
	if v.ChannelID == "" {
		v.ChannelID = ch.ID
	}
	if v.ChannelName == "" {
		v.ChannelName = ch.Name
	}
	return v
}

// RefreshAll refreshes every channel in stored order, one at a time with the
// channel pacer in between. A failing channel is recorded in the report and
// the loop moves on; only a cancelled context stops it early, in which case
// the partial report is returned with the context error.
func (e *Engine) RefreshAll(ctx context.Context) (*models.RefreshReport, error) {
	channels := e.lib.Channels()
	report := &models.RefreshReport{Results: make([]models.ChannelResult, 0, len(channels))}

	for i, ch := range channels {
		if i > 0 {
			if err := e.channelPacer.Wait(ctx); err != nil {
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log.Printf("Refreshing channel %d/%d: %s", i+1, len(channels), ch.Name)
		added, err := e.RefreshChannelVideos(ctx, ch.ID)
		report.Results = append(report.Results, models.ChannelResult{
			ChannelID: ch.ID,
			Name:      ch.Name,
			Added:     added,
			Err:       err,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			log.Printf("Warning: refresh of %s failed: %v", ch.Name, err)
		}
	}

	log.Printf("Refresh finished: %s", report.GetSummary())
	return report, nil
}

// SyncSubscriptions imports the signed-in user's subscriptions as channels.
// All pages are gathered first and merged in one pass; any page error aborts
// the sync with nothing merged. When new channels were added, their uploads
// are fetched with RefreshAll.
func (e *Engine) SyncSubscriptions(ctx context.Context, session models.AuthSession) (*models.SubscriptionReport, error) {
	if !session.Active(e.now()) {
		return nil, ErrUnauthenticated
	}

	report := &models.SubscriptionReport{}
	var subs []youtube.Subscription
	pageToken := ""
	for {
		if report.Pages > 0 {
			if err := e.pagePacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		log.Printf("Fetching subscriptions page %d...", report.Pages+1)
		page, err := e.gateway.FetchSubscriptionsPage(ctx, session.AccessToken, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch subscriptions page %d: %w", report.Pages+1, err)
		}
		report.Pages++
		if report.Pages == 1 {
			report.APITotal = page.TotalResults
			if len(page.Items) == 0 {
				report.Empty = true
				report.Tracked = len(e.lib.Channels())
				log.Println("No subscriptions returned on the first page")
				return report, nil
			}
		}
		subs = append(subs, page.Items...)
		log.Printf("Page %d: %d items, %d retrieved so far", report.Pages, len(page.Items), len(subs))

		if page.NextPageToken == "" {
			break
		}
		if page.NextPageToken == pageToken {
			log.Printf("Warning: API repeated page token %q, stopping pagination", pageToken)
			break
		}
		pageToken = page.NextPageToken
	}

	channels := make([]models.Channel, 0, len(subs))
	for _, sub := range subs {
		channels = append(channels, models.Channel{
			ID:        sub.ChannelID,
			Name:      sub.Title,
			Thumbnail: sub.Thumbnail,
		})
	}
	added, err := e.lib.MergeSubscriptions(ctx, channels)
	if err != nil {
		return nil, err
	}

	report.Retrieved = len(subs)
	report.Added = added
	report.Tracked = len(e.lib.Channels())
	log.Printf("Subscriptions: API reported %d, retrieved %d, added %d, tracking %d",
		report.APITotal, report.Retrieved, report.Added, report.Tracked)

	if added > 0 {
		refresh, err := e.RefreshAll(ctx)
		report.Refresh = refresh
		if err != nil {
			return report, err
		}
	}
	return report, nil
}
