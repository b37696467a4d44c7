package metrics

import "github.com/cognicore/lawdemand/pkg/lawdemand/model"

// KPIFigures are the four headline numbers of one view.
type KPIFigures struct {
	TotalComments      int     `json:"totalComments"`
	TotalIncidents     int     `json:"totalIncidents"`
	TotalLegalArticles int     `json:"totalLegalArticles"`
	MappingSuccessRate float64 `json:"mappingSuccessRate"`
}

// KPIMetrics are the figures of the current view plus the week-over-week
// change.
type KPIMetrics struct {
	KPIFigures
	Change KPIFigures `json:"change"`
}

// Figures computes the headline numbers of ds.
func Figures(ds model.Dataset) KPIFigures {
	return KPIFigures{
		TotalComments:      len(ds.Comments),
		TotalIncidents:     len(ds.Incidents),
		TotalLegalArticles: len(ds.LegalArticles),
		MappingSuccessRate: MappingSuccessRate(ds),
	}
}

// MappingSuccessRate is the share of comments and news whose incident and
// legal article both resolve, in percent with one decimal.
func MappingSuccessRate(ds model.Dataset) float64 {
	total := len(ds.Comments) + len(ds.News)
	if total == 0 {
		return 0
	}
	idx := model.NewIndex(ds)
	resolved := 0
	for _, c := range ds.Comments {
		if idx.CommentResolved(c) {
			resolved++
		}
	}
	for _, n := range ds.News {
		if idx.NewsResolved(n) {
			resolved++
		}
	}
	return round1(percent(resolved, total))
}

// ComputeKPI returns the figures of view. Change compares the last seven
// days (week) with the seven days before them (previous); both should carry
// the same category and source restriction as view.
func ComputeKPI(view, week, previous model.Dataset) KPIMetrics {
	cur := Figures(week)
	prev := Figures(previous)
	return KPIMetrics{
		KPIFigures: Figures(view),
		Change: KPIFigures{
			TotalComments:      cur.TotalComments - prev.TotalComments,
			TotalIncidents:     cur.TotalIncidents - prev.TotalIncidents,
			TotalLegalArticles: cur.TotalLegalArticles - prev.TotalLegalArticles,
			MappingSuccessRate: round1(cur.MappingSuccessRate - prev.MappingSuccessRate),
		},
	}
}
