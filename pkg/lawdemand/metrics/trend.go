package metrics

import (
	"time"

	"github.com/cognicore/lawdemand/pkg/lawdemand/filter"
	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

const dateLayout = "2006-01-02"

var trendPalette = []string{"#3b82f6", "#ef4444", "#10b981"}

// TrendArticle is one article's comment count on one day.
type TrendArticle struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// TrendPoint is one day of the trend chart.
type TrendPoint struct {
	Date     string         `json:"date"`
	Articles []TrendArticle `json:"articles"`
}

// TrendConfig controls BuildTrend.
type TrendConfig struct {
	Period filter.Period
	// Location calendar days are cut in. Default: UTC
	Location *time.Location
	// MaxDays caps the span of filter.PeriodAll. Default: 90
	MaxDays int
}

// BuildTrend returns one point per calendar day of the period, oldest first,
// with the daily comment counts of the top three ranked articles.
func BuildTrend(ds model.Dataset, cfg TrendConfig, now time.Time) []TrendPoint {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = 90
	}
	top := RankLegalArticles(ds, len(trendPalette), now)
	if len(top) == 0 {
		return []TrendPoint{}
	}

	today := startOfDay(now, cfg.Location)
	days := cfg.Period.Days()
	if days == 0 {
		floor := today.AddDate(0, 0, -(cfg.MaxDays - 1))
		earliest := today
		for _, c := range ds.Comments {
			if d := startOfDay(c.CreatedAt, cfg.Location); d.Before(earliest) {
				earliest = d
			}
		}
		if earliest.Before(floor) {
			earliest = floor
		}
		days = daysBetween(earliest, today) + 1
	}
	if days > cfg.MaxDays {
		days = cfg.MaxDays
	}
	first := today.AddDate(0, 0, -(days - 1))

	// counts[article][date]
	counts := make(map[string]map[string]int, len(top))
	for _, r := range top {
		counts[r.ID] = make(map[string]int)
	}
	for _, c := range ds.Comments {
		byDay, ok := counts[c.LegalArticleID]
		if !ok {
			continue
		}
		byDay[c.CreatedAt.In(cfg.Location).Format(dateLayout)]++
	}

	points := make([]TrendPoint, 0, days)
	for d := first; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		p := TrendPoint{Date: key, Articles: make([]TrendArticle, 0, len(top))}
		for i, r := range top {
			p.Articles = append(p.Articles, TrendArticle{
				Name:  r.FullName,
				Count: counts[r.ID][key],
				Color: trendPalette[i],
			})
		}
		points = append(points, p)
	}
	return points
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b; both are day starts.
func daysBetween(a, b time.Time) int {
	n := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
