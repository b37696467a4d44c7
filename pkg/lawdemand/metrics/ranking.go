package metrics

import (
	"sort"
	"time"

	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// StanceDistribution counts comments per stance.
type StanceDistribution struct {
	Reform  int `json:"reform"`
	Abolish int `json:"abolish"`
	Oppose  int `json:"oppose"`
}

// Add counts one comment of stance s.
func (d *StanceDistribution) Add(s model.Stance) {
	switch s {
	case model.StanceReform:
		d.Reform++
	case model.StanceAbolish:
		d.Abolish++
	case model.StanceOppose:
		d.Oppose++
	}
}

// Get returns the count for stance s.
func (d StanceDistribution) Get(s model.Stance) int {
	switch s {
	case model.StanceReform:
		return d.Reform
	case model.StanceAbolish:
		return d.Abolish
	case model.StanceOppose:
		return d.Oppose
	}
	return 0
}

// Total is the sum over all stances.
func (d StanceDistribution) Total() int {
	return d.Reform + d.Abolish + d.Oppose
}

// MajorIncident is one of the incidents driving demand for an article.
type MajorIncident struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CommentCount int    `json:"commentCount"`
}

// RepresentativeComment is the most liked comment on an article.
type RepresentativeComment struct {
	ID      string       `json:"id,omitempty"`
	Content string       `json:"content"`
	Likes   int          `json:"likes"`
	Stance  model.Stance `json:"stance,omitempty"`
	Source  model.Source `json:"source,omitempty"`
}

// LegalArticleRank is one row of the Top-N table.
type LegalArticleRank struct {
	Rank                  int                   `json:"rank"`
	ID                    string                `json:"id"`
	FullName              string                `json:"fullName"`
	LawName               string                `json:"lawName"`
	ClauseID              string                `json:"clauseId"`
	Category              string                `json:"category"`
	CommentCount          int                   `json:"commentCount"`
	NewsCount             int                   `json:"newsCount"`
	IncidentCount         int                   `json:"incidentCount"`
	MajorIncidents        []MajorIncident       `json:"majorIncidents"`
	Stances               StanceDistribution    `json:"stanceDistribution"`
	RepresentativeComment RepresentativeComment `json:"representativeComment"`
	GrowthRate            float64               `json:"growthRate"`
	Hot                   bool                  `json:"isHot"`
}

// RankConfig controls RankConfig.Rank.
type RankConfig struct {
	TopN int
	// HotGrowthThreshold is the 24h growth rate, in percent, an article
	// must exceed to be flagged hot.
	HotGrowthThreshold float64
}

// DefaultRankConfig returns the dashboard defaults.
func DefaultRankConfig() RankConfig {
	return RankConfig{
		TopN:               5,
		HotGrowthThreshold: 50,
	}
}

// RankLegalArticles ranks the articles of ds with the default hot threshold.
// n <= 0 means 5.
func RankLegalArticles(ds model.Dataset, n int, now time.Time) []LegalArticleRank {
	cfg := DefaultRankConfig()
	if n > 0 {
		cfg.TopN = n
	}
	return cfg.Rank(ds, now)
}

// Rank returns the top articles of ds by comment count. Ties keep dataset
// order.
func (cfg RankConfig) Rank(ds model.Dataset, now time.Time) []LegalArticleRank {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultRankConfig().TopN
	}
	idx := model.NewIndex(ds)
	win := newDayWindows(now)
	comments := commentsBy(ds.Comments, func(c model.SocialComment) string { return c.LegalArticleID })

	newsCount := make(map[string]int)
	newsIncidents := make(map[string][]string)
	for _, n := range ds.News {
		if n.LegalArticleID == "" {
			continue
		}
		newsCount[n.LegalArticleID]++
		newsIncidents[n.LegalArticleID] = append(newsIncidents[n.LegalArticleID], n.IncidentID)
	}

	ranks := make([]LegalArticleRank, 0, len(ds.LegalArticles))
	for _, la := range ds.LegalArticles {
		own := comments[la.ID]
		r := LegalArticleRank{
			ID:                    la.ID,
			FullName:              la.FullName,
			LawName:               la.LawName,
			ClauseID:              la.ClauseID,
			Category:              la.Category,
			CommentCount:          len(own),
			NewsCount:             newsCount[la.ID],
			RepresentativeComment: RepresentativeComment{Content: NoRepresentativeComment},
		}

		perIncident := make(map[string]int)
		distinct := make(map[string]struct{})
		var today, yesterday int
		for _, c := range own {
			r.Stances.Add(c.Stance)
			if c.IncidentID != "" {
				perIncident[c.IncidentID]++
				distinct[c.IncidentID] = struct{}{}
			}
			if c.Likes > 0 && c.Likes > r.RepresentativeComment.Likes {
				r.RepresentativeComment = RepresentativeComment{
					ID:      c.ID,
					Content: c.Content,
					Likes:   c.Likes,
					Stance:  c.Stance,
					Source:  c.Source,
				}
			}
			switch {
			case win.today(c.CreatedAt):
				today++
			case win.yesterday(c.CreatedAt):
				yesterday++
			}
		}
		for _, id := range newsIncidents[la.ID] {
			if id != "" {
				distinct[id] = struct{}{}
			}
		}
		r.IncidentCount = len(distinct)
		r.MajorIncidents = majorIncidents(idx, perIncident, 2)
		r.GrowthRate = round1(GrowthRate(today, yesterday))
		r.Hot = r.GrowthRate > cfg.HotGrowthThreshold
		ranks = append(ranks, r)
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].CommentCount > ranks[j].CommentCount
	})
	if len(ranks) > cfg.TopN {
		ranks = ranks[:cfg.TopN]
	}
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks
}

// majorIncidents returns the n incidents with the most comments, ties by
// name then id.
func majorIncidents(idx *model.Index, counts map[string]int, n int) []MajorIncident {
	out := make([]MajorIncident, 0, len(counts))
	for id, count := range counts {
		name := id
		if inc, ok := idx.Incident(id); ok {
			name = inc.Name
		}
		out = append(out, MajorIncident{ID: id, Name: name, CommentCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CommentCount != out[j].CommentCount {
			return out[i].CommentCount > out[j].CommentCount
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
