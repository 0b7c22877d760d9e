package seo

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
)

const wordsPerMinute = 200

// stripPolicy removes every element. A space stands in for each stripped tag
// so "<p>a</p><p>b</p>" still counts as two words.
var stripPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// StripMarkup removes all tags from s and decodes entities.
func StripMarkup(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// WordCount counts whitespace-delimited words in body after stripping markup.
func WordCount(body string) int {
	return len(strings.Fields(StripMarkup(body)))
}

// ReadingTimeMinutes estimates reading time at 200 words per minute,
// rounded up, never less than one minute.
func ReadingTimeMinutes(body string) int {
	n := int(math.Ceil(float64(WordCount(body)) / wordsPerMinute))
	if n < 1 {
		n = 1
	}
	return n
}

// ReadingTime formats the estimate for twitter:data1. The unit is always
// plural.
func ReadingTime(body string) string {
	return strconv.Itoa(ReadingTimeMinutes(body)) + " minutes"
}

// SanitizeText cleans a value submitted through the editor form: markup is
// stripped, runs of whitespace collapse to one space, ends are trimmed.
func SanitizeText(s string) string {
	return strings.Join(strings.Fields(StripMarkup(s)), " ")
}

// NormalizeLocale converts "en-us", "en_US" or "pt-BR" to the ll_RR form used
// by og:locale. A bare language stays bare. Input that does not parse is
// returned trimmed.
func NormalizeLocale(locale string) string {
	raw := strings.TrimSpace(locale)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return raw
	}
	base, _ := tag.Base()
	out := base.String()
	if region, conf := tag.Region(); conf == language.Exact {
		out += "_" + region.String()
	}
	return out
}
