package youtube

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	channelIDPattern = regexp.MustCompile(`^UC[\w-]{22}$`)

	channelURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/channel/(UC[\w-]{22})`),
		regexp.MustCompile(`youtube\.com/@([\w.-]+)`),
		regexp.MustCompile(`youtube\.com/c/([\w-]+)`),
		regexp.MustCompile(`youtube\.com/user/([\w-]+)`),
	}
	handlePattern = regexp.MustCompile(`^@([\w.-]+)$`)
)

// IsChannelID reports whether s has the shape of a canonical channel ID.
func IsChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

// ExtractChannelRef turns user input (channel ID, channel URL, handle URL or
// @handle) into either a canonical channel ID or a name to search for.
func ExtractChannelRef(input string) (string, error) {
	input = strings.TrimSpace(input)
	if IsChannelID(input) {
		return input, nil
	}
	for _, pattern := range channelURLPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}
	if m := handlePattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReference, input)
}
