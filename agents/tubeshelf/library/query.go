package library

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tubeshelf/internal/models"
)

// Sort orders for video listings.
const (
	SortDateDesc = "date-desc"
	SortDateAsc  = "date-asc"
	SortChannel  = "channel"
)

// VideoQuery filters and orders a video listing.
type VideoQuery struct {
	// FolderID defaults to models.FolderAll.
	FolderID string
	// Search matches titles and channel names, ignoring case.
	Search string
	// Sort defaults to SortDateDesc.
	Sort string
	// Limit caps the result; 0 means no limit.
	Limit int
}

// VideosInFolder returns the videos a folder shows, in stored order: every
// video for "all", favorites for "favorites", and the videos of member
// channels for a user folder.
func (l *Library) VideosInFolder(folderID string) ([]models.Video, error) {
	var (
		videos []models.Video
		err    error
	)
	l.read(func(s *models.State) { videos, err = videosInFolder(s, folderID) })
	return videos, err
}

func videosInFolder(s *models.State, folderID string) ([]models.Video, error) {
	videos := []models.Video{}
	switch folderID {
	case "", models.FolderAll:
		videos = append(videos, s.Videos...)
	case models.FolderFavorites:
		for _, v := range s.Videos {
			if v.IsFavorite {
				videos = append(videos, v)
			}
		}
	default:
		if folderIndex(s, folderID) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
		}
		members := make(map[string]bool)
		for _, ch := range s.Channels {
			if ch.FolderID == folderID {
				members[ch.ID] = true
			}
		}
		for _, v := range s.Videos {
			if members[v.ChannelID] {
				videos = append(videos, v)
			}
		}
	}
	return videos, nil
}

// Query returns a filtered, sorted copy of the videos. Stored order is never
// changed.
func (l *Library) Query(q VideoQuery) ([]models.Video, error) {
	videos, err := l.VideosInFolder(q.FolderID)
	if err != nil {
		return nil, err
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		fold := cases.Fold()
		needle := fold.String(search)
		filtered := videos[:0]
		for _, v := range videos {
			if strings.Contains(fold.String(v.Title), needle) || strings.Contains(fold.String(v.ChannelName), needle) {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}

	if err := sortVideos(videos, q.Sort); err != nil {
		return nil, err
	}

	if q.Limit > 0 && len(videos) > q.Limit {
		videos = videos[:q.Limit]
	}
	return videos, nil
}

func sortVideos(videos []models.Video, order string) error {
	switch order {
	case "", SortDateDesc:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].PublishedTime().After(videos[j].PublishedTime())
		})
	case SortDateAsc:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].PublishedTime().Before(videos[j].PublishedTime())
		})
	case SortChannel:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(videos, func(i, j int) bool {
			return c.CompareString(videos[i].ChannelName, videos[j].ChannelName) < 0
		})
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, order)
	}
	return nil
}
