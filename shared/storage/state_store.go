package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tubeshelf/internal/models"
)

// SchemaVersion is written into every saved blob. Blobs without a version
// (written before versioning existed) load as version 0.
const SchemaVersion = 1

// stateBlob is the serialized form of models.State. Entity field names are
// shared with the unversioned legacy blob.
type stateBlob struct {
	Version       int                 `json:"version"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Folders       []models.Folder     `json:"folders"`
	Channels      []models.Channel    `json:"channels"`
	Videos        []models.Video      `json:"videos"`
	Settings      *models.Settings    `json:"settings"`
	WatchedVideos []string            `json:"watchedVideos"`
	Auth          *models.AuthSession `json:"auth"`
}

// StateStore loads and saves the whole application state under one key.
type StateStore struct {
	kv  KV
	key string
	now func() time.Time
}

// StoreOption configures a StateStore.
type StoreOption func(*StateStore)

// WithClock overrides the clock used for the session expiry check.
func WithClock(now func() time.Time) StoreOption {
	return func(s *StateStore) { s.now = now }
}

func NewStateStore(kv KV, opts ...StoreOption) *StateStore {
	s := &StateStore{kv: kv, key: StateKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reconstructs the state. Missing top-level fields get their defaults and an
// expired session is dropped. When nothing is stored yet, a fresh state with the
// default folders is saved and returned.
func (s *StateStore) Load(ctx context.Context) (*models.State, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		state := models.NewState()
		if err := s.Save(ctx, state); err != nil {
			return nil, err
		}
		log.Println("Initialized new state with default folders")
		return state, nil
	}

	var blob stateBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, &StorageError{Op: "decode", Key: s.key, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if blob.Version > SchemaVersion {
		return nil, &StorageError{Op: "decode", Key: s.key,
			Err: fmt.Errorf("%w: %d (supported up to %d)", ErrUnsupportedVersion, blob.Version, SchemaVersion)}
	}

	return s.fromBlob(&blob), nil
}

func (s *StateStore) fromBlob(blob *stateBlob) *models.State {
	state := &models.State{
		Folders:  ensureDefaultFolders(blob.Folders),
		Channels: blob.Channels,
		Videos:   blob.Videos,
		Settings: models.DefaultSettings(),
		Watched:  models.NewWatchedSet(blob.WatchedVideos...),
	}
	if state.Channels == nil {
		state.Channels = []models.Channel{}
	}
	if state.Videos == nil {
		state.Videos = []models.Video{}
	}
	if blob.Settings != nil {
		state.Settings = *blob.Settings
	}
	if blob.Auth != nil {
		state.Auth = *blob.Auth
	}

	if !state.Auth.IsZero() && state.Auth.Expired(s.now()) {
		log.Printf("Stored session expired at %s, clearing it", state.Auth.ExpiresTime().Format(time.RFC3339))
		state.Auth = models.AuthSession{}
	}
	return state
}

func ensureDefaultFolders(folders []models.Folder) []models.Folder {
	present := make(map[string]bool, len(folders))
	for _, f := range folders {
		present[f.ID] = true
	}
	var missing []models.Folder
	for _, f := range models.DefaultFolders() {
		if !present[f.ID] {
			missing = append(missing, f)
		}
	}
	return append(missing, folders...)
}

// Save serializes the full state and overwrites the stored blob.
func (s *StateStore) Save(ctx context.Context, state *models.State) error {
	auth := state.Auth
	blob := stateBlob{
		Version:       SchemaVersion,
		UpdatedAt:     s.now().UTC(),
		Folders:       state.Folders,
		Channels:      state.Channels,
		Videos:        state.Videos,
		Settings:      &state.Settings,
		WatchedVideos: state.Watched.IDs(),
		Auth:          &auth,
	}

	data, err := json.Marshal(&blob)
	if err != nil {
		return &StorageError{Op: "encode", Key: s.key, Err: err}
	}
	return s.kv.Set(ctx, s.key, string(data))
}
