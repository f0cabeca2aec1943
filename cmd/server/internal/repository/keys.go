package repository

import (
	"fmt"
	"strings"
)

// keySeparator joins cache key segments. Filter values are sanitized so a
// crafted query cannot collide with another page's key.
const keySeparator = "::"

const (
	roadmapKeyPrefix = "roadmap:"
	listKeyPrefix    = "roadmaps:list"
)

// roadmapKey is the exact-match cache key for one roadmap.
func roadmapKey(id string) string {
	return roadmapKeyPrefix + id
}

// listKey builds a deterministic cache key from pagination parameters and
// the title filter. Identical parameters always produce identical keys.
func listKey(page, pageSize int, query string) string {
	query = strings.ReplaceAll(query, keySeparator, "-")
	return strings.Join([]string{
		listKeyPrefix,
		fmt.Sprintf("page=%d", page),
		fmt.Sprintf("size=%d", pageSize),
		"q=" + query,
	}, keySeparator)
}
