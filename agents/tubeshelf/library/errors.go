package library

import "errors"

var (
	ErrDuplicateChannel = errors.New("channel already tracked")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrVideoNotFound    = errors.New("video not found")
	// ErrDefaultFolder is returned when editing or deleting a built-in folder,
	// or assigning a channel to one.
	ErrDefaultFolder = errors.New("default folders cannot be modified")
	ErrInvalidInput  = errors.New("invalid input")
)
