package models

import "sort"

// WatchedSet is the add-only set of opened video IDs.
type WatchedSet map[string]struct{}

func NewWatchedSet(ids ...string) WatchedSet {
	s := make(WatchedSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s WatchedSet) Add(id string) {
	s[id] = struct{}{}
}

func (s WatchedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in sorted order.
func (s WatchedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// State is the whole application state, persisted as one snapshot.
type State struct {
	Folders  []Folder
	Channels []Channel
	Videos   []Video
	Settings Settings
	Watched  WatchedSet
	Auth     AuthSession
}

// NewState returns a fresh state seeded with the default folders.
func NewState() *State {
	return &State{
		Folders:  DefaultFolders(),
		Channels: []Channel{},
		Videos:   []Video{},
		Settings: DefaultSettings(),
		Watched:  NewWatchedSet(),
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Folders:  append([]Folder{}, s.Folders...),
		Channels: append([]Channel{}, s.Channels...),
		Videos:   append([]Video{}, s.Videos...),
		Settings: s.Settings,
		Watched:  NewWatchedSet(s.Watched.IDs()...),
		Auth:     s.Auth,
	}
	if s.Auth.UserInfo != nil {
		info := *s.Auth.UserInfo
		c.Auth.UserInfo = &info
	}
	return c
}
