package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tubeshelf/internal/models"
)

// Folders returns every folder, defaults first.
func (l *Library) Folders() []models.Folder {
	var folders []models.Folder
	l.read(func(s *models.State) { folders = append([]models.Folder{}, s.Folders...) })
	return folders
}

// AssignableFolders returns the user folders a channel can be placed in.
func (l *Library) AssignableFolders() []models.Folder {
	var folders []models.Folder
	l.read(func(s *models.State) {
		for _, f := range s.Folders {
			if !f.IsDefault {
				folders = append(folders, f)
			}
		}
	})
	return folders
}

// Folder looks up a folder by id.
func (l *Library) Folder(id string) (models.Folder, bool) {
	var (
		folder models.Folder
		ok     bool
	)
	l.read(func(s *models.State) {
		if i := folderIndex(s, id); i >= 0 {
			folder, ok = s.Folders[i], true
		}
	})
	return folder, ok
}

func (l *Library) CreateFolder(ctx context.Context, name, color string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, fmt.Errorf("%w: folder name is required", ErrInvalidInput)
	}
	if color == "" {
		color = models.DefaultFolderColor
	}

	folder := models.Folder{
		ID:    "folder_" + uuid.NewString(),
		Name:  name,
		Color: color,
	}
	err := l.update(ctx, func(s *models.State) error {
		s.Folders = append(s.Folders, folder)
		return nil
	})
	if err != nil {
		return models.Folder{}, err
	}
	return folder, nil
}

// UpdateFolder renames and recolors a user folder. An empty color keeps the
// current one.
func (l *Library) UpdateFolder(ctx context.Context, id, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: folder name is required", ErrInvalidInput)
	}
	return l.update(ctx, func(s *models.State) error {
		i, err := userFolderIndex(s, id)
		if err != nil {
			return err
		}
		s.Folders[i].Name = name
		if color != "" {
			s.Folders[i].Color = color
		}
		return nil
	})
}

// DeleteFolder removes a user folder and unassigns its channels. Videos are
// not touched. It returns the number of channels that were unassigned.
func (l *Library) DeleteFolder(ctx context.Context, id string) (int, error) {
	unassigned := 0
	err := l.update(ctx, func(s *models.State) error {
		i, err := userFolderIndex(s, id)
		if err != nil {
			return err
		}
		s.Folders = append(s.Folders[:i], s.Folders[i+1:]...)
		for j := range s.Channels {
			if s.Channels[j].FolderID == id {
				s.Channels[j].FolderID = ""
				unassigned++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return unassigned, nil
}

// AssignChannel moves a channel into a user folder, or out of any folder when
// folderID is empty.
func (l *Library) AssignChannel(ctx context.Context, channelID, folderID string) error {
	return l.update(ctx, func(s *models.State) error {
		if err := checkAssignable(s, folderID); err != nil {
			return err
		}
		i := channelIndex(s, channelID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
		}
		s.Channels[i].FolderID = folderID
		return nil
	})
}

// CheckAssignable reports whether folderID may be used as a channel's folder.
func (l *Library) CheckAssignable(folderID string) error {
	var err error
	l.read(func(s *models.State) { err = checkAssignable(s, folderID) })
	return err
}

func checkAssignable(s *models.State, folderID string) error {
	if folderID == "" {
		return nil
	}
	_, err := userFolderIndex(s, folderID)
	return err
}

func folderIndex(s *models.State, id string) int {
	for i, f := range s.Folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func userFolderIndex(s *models.State, id string) (int, error) {
	i := folderIndex(s, id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}
	if s.Folders[i].IsDefault || models.IsDefaultFolderID(id) {
		return -1, fmt.Errorf("%w: %s", ErrDefaultFolder, id)
	}
	return i, nil
}
