package export

import (
	"regexp"
	"strings"
	"time"
)

// DefaultBase names downloads when nothing better is known.
const DefaultBase = "photo"

const maxBaseLen = 80

var (
	forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// BaseName picks the stem of a download filename. A non-empty alt text wins
// unless it is just "photo"; otherwise the source name is used. The result
// has filesystem-hostile characters removed, whitespace collapsed to
// underscores and is truncated to 80 characters.
func BaseName(alt, sourceName string) string {
	base := ""
	if a := strings.TrimSpace(alt); a != "" && !strings.EqualFold(a, DefaultBase) {
		base = a
	}
	if base == "" {
		base = sourceName
	}
	if base == "" {
		base = DefaultBase
	}

	cleaned := forbiddenChars.ReplaceAllString(base, "")
	cleaned = strings.TrimSpace(whitespaceRuns.ReplaceAllString(cleaned, "_"))
	if cleaned == "" {
		return DefaultBase
	}
	if r := []rune(cleaned); len(r) > maxBaseLen {
		cleaned = string(r[:maxBaseLen])
	}
	return cleaned
}

// Timestamp formats t as YYYYMMDD_HHMMSS in t's location.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// FileName builds "<base>_mosaic_<YYYYMMDD_HHMMSS>.<ext>".
func FileName(base string, at time.Time, f Format) string {
	return base + "_mosaic_" + Timestamp(at) + "." + f.Ext()
}
