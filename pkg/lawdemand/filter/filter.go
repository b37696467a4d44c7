package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/lawdemand/pkg/lawdemand/internalerr"
	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// Period is the dashboard look-back window.
type Period string

const (
	Period7d  Period = "7d"
	Period14d Period = "14d"
	Period30d Period = "30d"
	PeriodAll Period = "all"
)

// ParsePeriod validates a period string. The empty string means all.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Period7d, Period14d, Period30d, PeriodAll:
		return p, nil
	case "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", internalerr.ErrInvalidFilter, s)
}

// Days returns the window length in days, or 0 for PeriodAll.
func (p Period) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period14d:
		return 14
	case Period30d:
		return 30
	}
	return 0
}

// Window is a closed time interval. A zero Window is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// Window returns [now-N days, now], or an unbounded window for PeriodAll.
func (p Period) Window(now time.Time) Window {
	days := p.Days()
	if days == 0 {
		return Window{}
	}
	return Window{From: now.AddDate(0, 0, -days), To: now}
}

// Unbounded reports whether the window accepts every instant.
func (w Window) Unbounded() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether From <= t <= To. Zero bounds are open.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// Criteria is the dashboard filter. Empty Categories or Sources mean no
// restriction on that dimension.
type Criteria struct {
	Period     Period   `json:"period"`
	Categories []string `json:"category"`
	Sources    []string `json:"source"`
}

// Validate checks the period and source names.
func (c Criteria) Validate() error {
	if _, err := ParsePeriod(string(c.Period)); err != nil {
		return err
	}
	for _, s := range c.Sources {
		if _, ok := model.ParseSource(s); !ok {
			return fmt.Errorf("%w: unknown source %q", internalerr.ErrInvalidFilter, s)
		}
	}
	return nil
}

// Apply filters ds by criteria relative to now.
func Apply(ds model.Dataset, c Criteria, now time.Time) model.Dataset {
	p, err := ParsePeriod(string(c.Period))
	if err != nil {
		p = PeriodAll
	}
	return ApplyWindow(ds, p.Window(now), c.Categories, c.Sources)
}

// ApplyWindow filters ds to comments inside w that match the category and
// source restrictions, then restricts incidents, legal articles and news to
// what those comments reach. The result is closed: every id referenced by a
// surviving comment or news item is present in the result. Mapping tables are
// passed through untouched.
func ApplyWindow(ds model.Dataset, w Window, categories, sources []string) model.Dataset {
	idx := model.NewIndex(ds)
	catSet := toSet(categories, func(s string) string { return strings.TrimSpace(s) })
	srcSet := toSet(sources, func(s string) string {
		if src, ok := model.ParseSource(s); ok {
			return string(src)
		}
		return strings.ToLower(strings.TrimSpace(s))
	})

	// 1. comments
	comments := make([]model.SocialComment, 0, len(ds.Comments))
	for _, c := range ds.Comments {
		if !w.Contains(c.CreatedAt) {
			continue
		}
		if len(catSet) > 0 {
			if _, ok := catSet[idx.CommentCategory(c)]; !ok {
				continue
			}
		}
		if len(srcSet) > 0 {
			if _, ok := srcSet[string(c.Source)]; !ok {
				continue
			}
		}
		comments = append(comments, c)
	}

	// 2. live incident ids
	liveIncidents := make(map[string]struct{})
	for _, c := range comments {
		if c.IncidentID != "" {
			liveIncidents[c.IncidentID] = struct{}{}
		}
	}

	// 3. incidents active in the window: a surviving comment is activity
	// inside w, so CreatedAt (the earliest record of any source) is not
	// consulted
	incidents := make([]model.Incident, 0, len(liveIncidents))
	keptIncidents := make(map[string]struct{}, len(liveIncidents))
	for _, inc := range ds.Incidents {
		if _, ok := liveIncidents[inc.ID]; !ok {
			continue
		}
		incidents = append(incidents, inc)
		keptIncidents[inc.ID] = struct{}{}
	}

	// 4. legal articles reached by the surviving comments
	liveLaws := make(map[string]struct{})
	for _, c := range comments {
		if c.LegalArticleID != "" {
			liveLaws[c.LegalArticleID] = struct{}{}
		}
	}
	laws := make([]model.LegalArticle, 0, len(liveLaws))
	for _, la := range ds.LegalArticles {
		if _, ok := liveLaws[la.ID]; ok {
			laws = append(laws, la)
		}
	}

	// 5. news
	news := make([]model.NewsArticle, 0)
	for _, n := range ds.News {
		if !w.Contains(n.PublishedAt) {
			continue
		}
		if _, ok := keptIncidents[n.IncidentID]; !ok {
			continue
		}
		if n.LegalArticleID != "" {
			if _, ok := liveLaws[n.LegalArticleID]; !ok {
				continue
			}
		}
		news = append(news, n)
	}

	// 6. mappings are global
	return model.Dataset{
		LegalArticles: laws,
		Incidents:     incidents,
		Comments:      comments,
		News:          news,
		Mappings:      ds.Mappings,
	}
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = norm(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
