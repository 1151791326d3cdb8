package statsd

import "regexp"

var (
	reWhitespaceRun = regexp.MustCompile(`\s+`)
	reSlashes       = regexp.MustCompile(`[/\\]`)
	reDisallowed    = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// Normalize rewrites a metric name into the character set StatsD servers
// expect. Rules are applied in order: collapse whitespace runs to a single
// underscore, turn slashes into hyphens, then drop anything still outside
// [A-Za-z0-9_.-]. It is idempotent: Normalize(Normalize(n)) == Normalize(n).
func Normalize(name string) string {
	name = reWhitespaceRun.ReplaceAllString(name, "_")
	name = reSlashes.ReplaceAllString(name, "-")
	name = reDisallowed.ReplaceAllString(name, "")
	return name
}
