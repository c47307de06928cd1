package library

import (
	"context"
	"fmt"

	"tubeshelf/internal/models"
)

// Videos returns every stored video in stored order.
func (l *Library) Videos() []models.Video {
	var videos []models.Video
	l.read(func(s *models.State) { videos = append([]models.Video{}, s.Videos...) })
	return videos
}

func (l *Library) Video(id string) (models.Video, bool) {
	var (
		video models.Video
		ok    bool
	)
	l.read(func(s *models.State) {
		if i := videoIndex(s, id); i >= 0 {
			video, ok = s.Videos[i], true
		}
	})
	return video, ok
}

// MergeVideos appends the videos whose ids are not stored yet, unfavorited.
// Existing records are never updated. The state is saved once, and the number
// of new records is returned.
func (l *Library) MergeVideos(ctx context.Context, videos []models.Video) (int, error) {
	added := 0
	err := l.update(ctx, func(s *models.State) error {
		seen := make(map[string]bool, len(s.Videos)+len(videos))
		for _, v := range s.Videos {
			seen[v.ID] = true
		}
		for _, v := range videos {
			if v.ID == "" || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			v.IsFavorite = false
			s.Videos = append(s.Videos, v)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (l *Library) ToggleFavorite(ctx context.Context, videoID string) (bool, error) {
	var favorite bool
	err := l.update(ctx, func(s *models.State) error {
		i := videoIndex(s, videoID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		}
		s.Videos[i].IsFavorite = !s.Videos[i].IsFavorite
		favorite = s.Videos[i].IsFavorite
		return nil
	})
	return favorite, err
}

// MarkWatched adds the id to the watched set. Ids of videos that are not
// stored are accepted; marking twice is a no-op that does not save.
func (l *Library) MarkWatched(ctx context.Context, videoID string) error {
	if videoID == "" {
		return fmt.Errorf("%w: video id is required", ErrInvalidInput)
	}
	if l.IsWatched(videoID) {
		return nil
	}
	return l.update(ctx, func(s *models.State) error {
		s.Watched.Add(videoID)
		return nil
	})
}

func (l *Library) IsWatched(videoID string) bool {
	var watched bool
	l.read(func(s *models.State) { watched = s.Watched.Has(videoID) })
	return watched
}

// WatchedIDs returns the watched set in sorted order.
func (l *Library) WatchedIDs() []string {
	var ids []string
	l.read(func(s *models.State) { ids = s.Watched.IDs() })
	return ids
}

func videoIndex(s *models.State, id string) int {
	for i, v := range s.Videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}
