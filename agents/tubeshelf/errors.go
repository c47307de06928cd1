package tubeshelf

import (
	"tubeshelf/agents/tubeshelf/auth"
	"tubeshelf/agents/tubeshelf/library"
	"tubeshelf/agents/tubeshelf/syncer"
	"tubeshelf/agents/tubeshelf/youtube"
	"tubeshelf/shared/storage"
)

// Errors callers can match with errors.Is.
var (
	ErrNotFound         = youtube.ErrNotFound
	ErrAuth             = youtube.ErrAuth
	ErrTransient        = youtube.ErrTransient
	ErrInvalidReference = youtube.ErrInvalidReference

	ErrDuplicateChannel = library.ErrDuplicateChannel
	ErrChannelNotFound  = library.ErrChannelNotFound
	ErrFolderNotFound   = library.ErrFolderNotFound
	ErrVideoNotFound    = library.ErrVideoNotFound
	ErrDefaultFolder    = library.ErrDefaultFolder
	ErrInvalidInput     = library.ErrInvalidInput

	ErrUnauthenticated      = syncer.ErrUnauthenticated
	ErrLoginInProgress      = auth.ErrLoginInProgress
	ErrAlreadyAuthenticated = auth.ErrAlreadyAuthenticated
	ErrNotAuthenticated     = auth.ErrNotAuthenticated

	ErrLocked             = storage.ErrLocked
	ErrCorrupt            = storage.ErrCorrupt
	ErrUnsupportedVersion = storage.ErrUnsupportedVersion
)
