// Package tubeshelf wires storage, the YouTube gateway, the sync engine and
// the session manager into one Manager, and adapts it to the scheduler.
package tubeshelf

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"

	"tubeshelf/agents/tubeshelf/auth"
	"tubeshelf/agents/tubeshelf/library"
	"tubeshelf/agents/tubeshelf/syncer"
	"tubeshelf/agents/tubeshelf/youtube"
	"tubeshelf/internal/models"
	"tubeshelf/shared/config"
	"tubeshelf/shared/ratelimit"
	"tubeshelf/shared/storage"
)

// Manager owns the state of one tubeshelf data directory.
type Manager struct {
	Library *library.Library
	Engine  *syncer.Engine
	Auth    *auth.Manager

	kv storage.KV
}

type openOptions struct {
	prompt         func(*oauth2.DeviceAuthResponse)
	requester      auth.TokenRequester
	gatewayOptions []youtube.ClientOption
}

// Option configures Open.
type Option func(*openOptions)

// WithLoginPrompt sets how device sign-in instructions are shown.
func WithLoginPrompt(prompt func(*oauth2.DeviceAuthResponse)) Option {
	return func(o *openOptions) { o.prompt = prompt }
}

// WithTokenRequester replaces the device flow used by Login.
func WithTokenRequester(r auth.TokenRequester) Option {
	return func(o *openOptions) { o.requester = r }
}

// WithGatewayOptions passes options to the YouTube client.
func WithGatewayOptions(opts ...youtube.ClientOption) Option {
	return func(o *openOptions) { o.gatewayOptions = append(o.gatewayOptions, opts...) }
}

// Open loads the stored state and builds every component from it. The API
// key and client ID come from the stored settings, which config only fills
// in while they are empty. Settings changed later apply on the next Open.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Manager, error) {
	o := &openOptions{prompt: auth.WritePrompt(os.Stdout)}
	for _, opt := range opts {
		opt(o)
	}

	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage at %s: %w", cfg.Storage.Backend, cfg.Storage.Path, err)
	}
	m := &Manager{kv: kv}

	if err := m.init(ctx, cfg, o); err != nil {
		kv.Close()
		return nil, err
	}
	return m, nil
}

func (m *Manager) init(ctx context.Context, cfg *config.Config, o *openOptions) error {
	store := storage.NewStateStore(m.kv)
	state, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	m.Library = library.New(state, store)

	if err := seedSettings(ctx, m.Library, cfg); err != nil {
		return err
	}
	settings := m.Library.Settings()
	if settings.APIKey == "" {
		log.Println("Warning: no YouTube API key configured; channel lookups will fail")
	}

	gatewayOpts := o.gatewayOptions
	if cfg.YouTube.Endpoint != "" {
		gatewayOpts = append([]youtube.ClientOption{
			youtube.WithEndpoint(cfg.YouTube.Endpoint),
			youtube.WithUserInfoEndpoint(cfg.YouTube.Endpoint),
		}, gatewayOpts...)
	}
	client, err := youtube.NewClient(ctx, settings.APIKey, gatewayOpts...)
	if err != nil {
		return err
	}

	m.Engine = syncer.NewEngine(client, m.Library,
		syncer.WithPagePacer(ratelimit.New(cfg.Sync.Pacing, cfg.Sync.PageDelay)),
		syncer.WithChannelPacer(ratelimit.New(cfg.Sync.Pacing, cfg.Sync.ChannelDelay)))

	requester := o.requester
	if requester == nil {
		requester = auth.NewDeviceFlowRequester(settings.ClientID, cfg.YouTube.ClientSecret, o.prompt)
	}
	m.Auth, err = auth.NewManager(ctx, m.Library, requester, client)
	return err
}

// seedSettings copies configured values into the stored settings where those
// are still empty.
func seedSettings(ctx context.Context, lib *library.Library, cfg *config.Config) error {
	settings := lib.Settings()
	seeded := settings
	if seeded.ClientID == "" {
		seeded.ClientID = cfg.YouTube.ClientID
	}
	if seeded.APIKey == "" {
		seeded.APIKey = cfg.YouTube.APIKey
	}
	if seeded.MaxResults == 0 {
		seeded.MaxResults = cfg.Library.MaxResults
	}
	if seeded == settings {
		return nil
	}
	if err := lib.UpdateSettings(ctx, seeded); err != nil {
		return fmt.Errorf("failed to seed settings from config: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.kv.Close()
}

// AddChannel onboards a channel by ID, URL or handle.
func (m *Manager) AddChannel(ctx context.Context, input, folderID string) (models.Channel, int, error) {
	return m.Engine.AddChannel(ctx, input, folderID)
}

func (m *Manager) RefreshChannel(ctx context.Context, channelID string) (int, error) {
	return m.Engine.RefreshChannelVideos(ctx, channelID)
}

func (m *Manager) RefreshAll(ctx context.Context) (*models.RefreshReport, error) {
	return m.Engine.RefreshAll(ctx)
}

// SyncSubscriptions imports the signed-in user's subscriptions.
func (m *Manager) SyncSubscriptions(ctx context.Context) (*models.SubscriptionReport, error) {
	return m.Engine.SyncSubscriptions(ctx, m.Auth.Session(ctx))
}

func (m *Manager) Login(ctx context.Context) (models.AuthSession, error) {
	return m.Auth.Login(ctx)
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.Auth.Logout(ctx)
}

// OpenVideo marks a stored video as watched and returns its watch URL.
func (m *Manager) OpenVideo(ctx context.Context, videoID string) (string, error) {
	video, ok := m.Library.Video(videoID)
	if !ok {
		return "", fmt.Errorf("%w: %s", library.ErrVideoNotFound, videoID)
	}
	if err := m.Library.MarkWatched(ctx, videoID); err != nil {
		return "", err
	}
	return video.URL(), nil
}
