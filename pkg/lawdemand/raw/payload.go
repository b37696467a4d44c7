package raw

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CompactLayout is the fixed-width timestamp used inside reaction records.
const CompactLayout = "20060102150405"

// NewsRecord is one article inside a news sub-category.
type NewsRecord struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Reaction is one social-media reaction.
type Reaction struct {
	Content   string `json:"content"`
	Source    string `json:"source"`
	Likes     int    `json:"likes"`
	Timestamp string `json:"timestamp"`
}

// NewsSubcategory is the decoded payload of a news sub-category.
type NewsSubcategory struct {
	Count      int
	RelatedLaw string
	Articles   []NewsRecord
	// Skipped counts records that could not be decoded.
	Skipped int
}

// SocialSubcategory is the decoded payload of a social sub-category.
// Reactions are keyed by the raw stance label.
type SocialSubcategory struct {
	Count      int
	RelatedLaw string
	Reactions  map[string][]Reaction
	Skipped    int
}

type subHeader struct {
	Count      json.RawMessage `json:"count"`
	RelatedLaw string          `json:"relatedLaw"`
	RelatedKo  string          `json:"관련법"`
}

func (h subHeader) law() string {
	if h.RelatedLaw != "" {
		return strings.TrimSpace(h.RelatedLaw)
	}
	return strings.TrimSpace(h.RelatedKo)
}

func (h subHeader) count() int { return parseCount(h.Count) }

// parseCount reads a count written as a JSON number or a quoted number.
// Anything else is 0.
func parseCount(data json.RawMessage) int {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// DecodeNews decodes a news sub-category payload. Individual malformed
// articles are counted in Skipped rather than failing the whole payload.
func DecodeNews(data json.RawMessage) (NewsSubcategory, error) {
	fields, ok := object(data)
	if !ok {
		return NewsSubcategory{}, fmt.Errorf("news sub-category is not an object")
	}
	var hdr subHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return NewsSubcategory{}, err
	}
	out := NewsSubcategory{Count: hdr.count(), RelatedLaw: hdr.law()}

	var items []json.RawMessage
	if raw, ok := fields["articles"]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return out, nil
		}
	}
	for _, item := range items {
		var rec NewsRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			out.Skipped++
			continue
		}
		out.Articles = append(out.Articles, rec)
	}
	return out, nil
}

// DecodeSocial decodes a social sub-category payload.
func DecodeSocial(data json.RawMessage) (SocialSubcategory, error) {
	fields, ok := object(data)
	if !ok {
		return SocialSubcategory{}, fmt.Errorf("social sub-category is not an object")
	}
	var hdr subHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return SocialSubcategory{}, err
	}
	out := SocialSubcategory{
		Count:      hdr.count(),
		RelatedLaw: hdr.law(),
		Reactions:  make(map[string][]Reaction),
	}

	stances, ok := object(fields["reactions"])
	if !ok {
		return out, nil
	}
	for _, stance := range sortedKeys(stances) {
		var items []json.RawMessage
		if err := json.Unmarshal(stances[stance], &items); err != nil {
			continue
		}
		for _, item := range items {
			var r Reaction
			if err := json.Unmarshal(item, &r); err != nil {
				out.Skipped++
				continue
			}
			out.Reactions[stance] = append(out.Reactions[stance], r)
		}
	}
	return out, nil
}

// ParseCompact parses a YYYYMMDDhhmmss timestamp in loc.
func ParseCompact(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(CompactLayout) {
		return time.Time{}, fmt.Errorf("compact timestamp %q: want %d digits", s, len(CompactLayout))
	}
	return time.ParseInLocation(CompactLayout, s, loc)
}

// ParseTimestamp accepts RFC 3339, compact, "2006-01-02 15:04:05" and
// "2006-01-02" forms.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := ParseCompact(s, loc); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02", "2006.01.02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// BucketStart returns the first instant of a time bucket key.
// Daily keys are YYYY-MM-DD, weekly keys YYYY-Www (ISO week), monthly YYYY-MM.
func BucketStart(g Granularity, key string, loc *time.Location) (time.Time, bool) {
	key = strings.TrimSpace(key)
	switch g {
	case Daily:
		t, err := time.ParseInLocation("2006-01-02", key, loc)
		return t, err == nil
	case Monthly:
		t, err := time.ParseInLocation("2006-01", key, loc)
		return t, err == nil
	case Weekly:
		year, week, ok := parseISOWeek(key)
		if !ok {
			return time.Time{}, false
		}
		// Jan 4th is always in ISO week 1.
		jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
		offset := (int(jan4.Weekday()) + 6) % 7
		monday := jan4.AddDate(0, 0, -offset)
		return monday.AddDate(0, 0, (week-1)*7), true
	}
	return time.Time{}, false
}

func parseISOWeek(key string) (int, int, bool) {
	parts := strings.SplitN(strings.ToUpper(key), "-W", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil || week < 1 || week > 53 {
		return 0, 0, false
	}
	return year, week, true
}
