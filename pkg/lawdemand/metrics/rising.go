package metrics

import (
	"sort"
	"time"

	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// MaxRisingIssues is the number of issues DetectRisingIssues returns.
const MaxRisingIssues = 3

// RisingIssue is an incident whose comment volume grew over the last day.
type RisingIssue struct {
	IncidentID   string  `json:"incidentId"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	LegalArticle string  `json:"legalArticle"`
	Today        int     `json:"today"`
	Yesterday    int     `json:"yesterday"`
	GrowthRate   float64 `json:"growthRate"`
	Placeholder  bool    `json:"placeholder,omitempty"`
}

// DetectRisingIssues returns up to three incidents of ds with positive
// 24-hour growth, fastest first. When none qualify the result comes from
// policy.
func DetectRisingIssues(ds model.Dataset, now time.Time, policy PlaceholderPolicy) []RisingIssue {
	if policy == nil {
		policy = NoPlaceholders{}
	}
	idx := model.NewIndex(ds)
	win := newDayWindows(now)

	today := make(map[string]int)
	yesterday := make(map[string]int)
	for _, c := range ds.Comments {
		switch {
		case win.today(c.CreatedAt):
			today[c.IncidentID]++
		case win.yesterday(c.CreatedAt):
			yesterday[c.IncidentID]++
		}
	}

	var issues []RisingIssue
	for _, inc := range ds.Incidents {
		rate := GrowthRate(today[inc.ID], yesterday[inc.ID])
		if rate <= 0 {
			continue
		}
		law := NoRelatedLaw
		if la, ok := idx.LegalForIncident(inc.ID); ok {
			law = la.FullName
		}
		issues = append(issues, RisingIssue{
			IncidentID:   inc.ID,
			Name:         inc.Name,
			Category:     inc.Category,
			LegalArticle: law,
			Today:        today[inc.ID],
			Yesterday:    yesterday[inc.ID],
			GrowthRate:   round1(rate),
		})
	}
	if len(issues) == 0 {
		return policy.RisingIssues()
	}

	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.GrowthRate != b.GrowthRate {
			return a.GrowthRate > b.GrowthRate
		}
		if a.Today != b.Today {
			return a.Today > b.Today
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.IncidentID < b.IncidentID
	})
	if len(issues) > MaxRisingIssues {
		issues = issues[:MaxRisingIssues]
	}
	return issues
}
