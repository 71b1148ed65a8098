package scan

import (
	"github.com/dashreel/dashreel/segment"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Filter keeps the segments whose filename or path fuzzily matches query.
func Filter(segments []segment.Segment, query string) []segment.Segment {
	if query == "" {
		return segments
	}
	return lo.Filter(segments, func(s segment.Segment, _ int) bool {
		return fuzzy.MatchFold(query, s.Filename) || fuzzy.MatchFold(query, s.Path)
	})
}

// Channels parses channel names, ignoring duplicates.
func Channels(names []string) ([]segment.Channel, error) {
	var out []segment.Channel
	for _, name := range names {
		c, err := segment.ParseChannel(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return lo.Uniq(out), nil
}
