package report

import (
	"fmt"
	"regexp"
	"time"
)

var (
	dayKeyPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	weekKeyPattern  = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)
	monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// FormatBucketLabel renders a bucket key for display. Keys of unknown shape,
// including years and the overall key, come back unchanged.
func FormatBucketLabel(key string) string {
	switch {
	case dayKeyPattern.MatchString(key):
		if t, ok := parseDate(key); ok {
			return t.Format("02 Jan 2006")
		}
	case weekKeyPattern.MatchString(key):
		m := weekKeyPattern.FindStringSubmatch(key)
		return fmt.Sprintf("Week %s, %s", m[2], m[1])
	case monthKeyPattern.MatchString(key):
		if t, err := time.Parse("2006-01", key); err == nil {
			return t.Format("January 2006")
		}
	}
	return key
}
