package library

import (
	"context"
	"fmt"

	"tubeshelf/internal/models"
)

// Channels returns the tracked channels in stored order.
func (l *Library) Channels() []models.Channel {
	var channels []models.Channel
	l.read(func(s *models.State) { channels = append([]models.Channel{}, s.Channels...) })
	return channels
}

func (l *Library) Channel(id string) (models.Channel, bool) {
	var (
		ch models.Channel
		ok bool
	)
	l.read(func(s *models.State) {
		if i := channelIndex(s, id); i >= 0 {
			ch, ok = s.Channels[i], true
		}
	})
	return ch, ok
}

func (l *Library) HasChannel(id string) bool {
	_, ok := l.Channel(id)
	return ok
}

// AddChannel stores a new channel record. The folder must be empty or an
// existing user folder.
func (l *Library) AddChannel(ctx context.Context, ch models.Channel) error {
	if ch.ID == "" {
		return fmt.Errorf("%w: channel id is required", ErrInvalidInput)
	}
	return l.update(ctx, func(s *models.State) error {
		if channelIndex(s, ch.ID) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, ch.ID)
		}
		if err := checkAssignable(s, ch.FolderID); err != nil {
			return err
		}
		s.Channels = append(s.Channels, ch)
		return nil
	})
}

// UpdateChannelInfo refreshes the cached name, thumbnail and uploads playlist
// of a channel. Empty values keep what is stored.
func (l *Library) UpdateChannelInfo(ctx context.Context, id, name, thumbnail, uploadsPlaylistID string) error {
	return l.update(ctx, func(s *models.State) error {
		i := channelIndex(s, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrChannelNotFound, id)
		}
		ch := &s.Channels[i]
		if name != "" {
			ch.Name = name
		}
		if thumbnail != "" {
			ch.Thumbnail = thumbnail
		}
		if uploadsPlaylistID != "" {
			ch.UploadsPlaylistID = uploadsPlaylistID
		}
		return nil
	})
}

// DeleteChannel removes a channel together with every video it uploaded, and
// returns how many videos went with it.
func (l *Library) DeleteChannel(ctx context.Context, id string) (int, error) {
	removed := 0
	err := l.update(ctx, func(s *models.State) error {
		i := channelIndex(s, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrChannelNotFound, id)
		}
		s.Channels = append(s.Channels[:i], s.Channels[i+1:]...)

		kept := s.Videos[:0]
		for _, v := range s.Videos {
			if v.ChannelID == id {
				removed++
				continue
			}
			kept = append(kept, v)
		}
		s.Videos = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// MergeSubscriptions inserts the channels that are not tracked yet, in the
// given order, with no folder. Duplicates against stored channels and within
// the batch are skipped. The state is saved once.
func (l *Library) MergeSubscriptions(ctx context.Context, channels []models.Channel) (int, error) {
	added := 0
	err := l.update(ctx, func(s *models.State) error {
		seen := make(map[string]bool, len(s.Channels)+len(channels))
		for _, ch := range s.Channels {
			seen[ch.ID] = true
		}
		for _, ch := range channels {
			if ch.ID == "" || seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
			ch.FolderID = ""
			s.Channels = append(s.Channels, ch)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ChannelVideoCount returns how many stored videos belong to the channel.
func (l *Library) ChannelVideoCount(id string) int {
	count := 0
	l.read(func(s *models.State) {
		for _, v := range s.Videos {
			if v.ChannelID == id {
				count++
			}
		}
	})
	return count
}

func channelIndex(s *models.State, id string) int {
	for i, ch := range s.Channels {
		if ch.ID == id {
			return i
		}
	}
	return -1
}
