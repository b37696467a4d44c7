package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lawdemand/pkg/lawdemand/filter"
	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

var now = time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

func hoursAgo(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }

func comment(id, incident, law string, stance model.Stance, likes int, at time.Time) model.SocialComment {
	return model.SocialComment{
		ID:             id,
		Content:        "content " + id,
		Source:         model.SourceNaver,
		Stance:         stance,
		IncidentID:     incident,
		LegalArticleID: law,
		CreatedAt:      at,
		Likes:          likes,
	}
}

// fixture: law-a has 3 comments (2 today, 1 yesterday), law-b 1 comment,
// law-c 3 comments from five days ago.
func fixture() model.Dataset {
	ds := model.Dataset{
		LegalArticles: []model.LegalArticle{
			{ID: "law-a", LawName: "개인정보보호법", ClauseID: "제2조", Category: "privacy", FullName: "개인정보보호법 제2조"},
			{ID: "law-b", LawName: "근로기준법", ClauseID: "제50조", Category: "labor", FullName: "근로기준법 제50조"},
			{ID: "law-c", LawName: "산업안전보건법", ClauseID: "제38조", Category: "labor", FullName: "산업안전보건법 제38조"},
		},
		Incidents: []model.Incident{
			{ID: "inc-a1", Name: "유출", Category: "privacy", RelatedLaw: "개인정보보호법 제2조"},
			{ID: "inc-a2", Name: "해킹", Category: "privacy", RelatedLaw: "개인정보보호법 제2조"},
			{ID: "inc-b", Name: "과로", Category: "labor", RelatedLaw: "근로기준법 제50조"},
			{ID: "inc-c", Name: "추락", Category: "labor", RelatedLaw: "산업안전보건법 제38조"},
		},
		Comments: []model.SocialComment{
			comment("c1", "inc-a1", "law-a", model.StanceReform, 3, hoursAgo(1)),
			comment("c2", "inc-a1", "law-a", model.StanceReform, 9, hoursAgo(2)),
			comment("c3", "inc-a2", "law-a", model.StanceOppose, 0, hoursAgo(30)),
			comment("c4", "inc-b", "law-b", model.StanceAbolish, 0, hoursAgo(3)),
			comment("c5", "inc-c", "law-c", model.StanceReform, 1, hoursAgo(120)),
			comment("c6", "inc-c", "law-c", model.StanceReform, 1, hoursAgo(121)),
			comment("c7", "inc-c", "law-c", model.StanceOppose, 1, hoursAgo(122)),
		},
		News: []model.NewsArticle{
			{ID: "n1", IncidentID: "inc-a1", LegalArticleID: "law-a", PublishedAt: hoursAgo(5)},
			{ID: "n2", IncidentID: "inc-b", LegalArticleID: "law-b", PublishedAt: hoursAgo(5)},
		},
	}
	ds.Mappings = model.BuildMappings(ds)
	return ds
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 100.0, GrowthRate(5, 0))
	assert.Equal(t, 0.0, GrowthRate(0, 0))
	assert.Equal(t, 50.0, GrowthRate(3, 2))
	assert.Equal(t, -100.0, GrowthRate(0, 4))
	assert.False(t, math.IsNaN(GrowthRate(0, 0)))
}

func TestScale(t *testing.T) {
	s := Scale{Min: 20, Max: 60, Factor: 8}
	assert.Equal(t, 20.0, s.Apply(0))
	assert.Equal(t, 32.0, s.Apply(16))
	assert.Equal(t, 60.0, s.Apply(10000))
	assert.Equal(t, 20.0, s.Apply(-4))
}

func TestComputeKPIEmpty(t *testing.T) {
	kpi := ComputeKPI(model.Dataset{}, model.Dataset{}, model.Dataset{})
	assert.Equal(t, KPIMetrics{}, kpi)
}

func TestComputeKPI(t *testing.T) {
	ds := fixture()
	// one comment whose legal article is outside the view
	ds.Comments = append(ds.Comments, comment("c8", "inc-b", "law-missing", model.StanceReform, 0, now))

	kpi := ComputeKPI(ds, ds, fixture())
	assert.Equal(t, 8, kpi.TotalComments)
	assert.Equal(t, 4, kpi.TotalIncidents)
	assert.Equal(t, 3, kpi.TotalLegalArticles)
	// 9 of 10 records resolve
	assert.Equal(t, 90.0, kpi.MappingSuccessRate)
	assert.Equal(t, 1, kpi.Change.TotalComments)
	assert.Equal(t, 0, kpi.Change.TotalIncidents)
	assert.Equal(t, -10.0, kpi.Change.MappingSuccessRate)
}

func TestComputeKPIChangeUsesWeeks(t *testing.T) {
	week := fixture()
	week.Comments = week.Comments[:4]
	previous := fixture()
	previous.Comments = previous.Comments[:2]

	kpi := ComputeKPI(fixture(), week, previous)
	assert.Equal(t, 7, kpi.TotalComments)
	assert.Equal(t, 2, kpi.Change.TotalComments)
	assert.Equal(t, 0, kpi.Change.TotalIncidents)
}

func TestMappingSuccessRateRounding(t *testing.T) {
	ds := fixture()
	ds.News = append(ds.News, model.NewsArticle{ID: "n3", IncidentID: "inc-gone", LegalArticleID: "law-a"})
	// 9 / 10
	assert.Equal(t, 90.0, MappingSuccessRate(ds))
	ds.News = append(ds.News, model.NewsArticle{ID: "n4"}, model.NewsArticle{ID: "n5"})
	// 9 / 12 = 75
	assert.Equal(t, 75.0, MappingSuccessRate(ds))
	ds.News = append(ds.News, model.NewsArticle{ID: "n6"})
	// 9 / 13 = 69.23
	assert.Equal(t, 69.2, MappingSuccessRate(ds))
}

func TestRankLegalArticles(t *testing.T) {
	ranks := RankLegalArticles(fixture(), 0, now)
	require.Len(t, ranks, 3)

	// law-a and law-c tie on three comments and keep dataset order
	assert.Equal(t, []string{"law-a", "law-c", "law-b"}, []string{ranks[0].ID, ranks[1].ID, ranks[2].ID})
	for i := 1; i < len(ranks); i++ {
		assert.GreaterOrEqual(t, ranks[i-1].CommentCount, ranks[i].CommentCount)
		assert.Equal(t, i+1, ranks[i].Rank)
	}

	a := ranks[0]
	assert.Equal(t, 1, a.NewsCount)
	assert.Equal(t, 2, a.IncidentCount)
	assert.Equal(t, StanceDistribution{Reform: 2, Oppose: 1}, a.Stances)
	require.Len(t, a.MajorIncidents, 2)
	assert.Equal(t, MajorIncident{ID: "inc-a1", Name: "유출", CommentCount: 2}, a.MajorIncidents[0])
	assert.Equal(t, "c2", a.RepresentativeComment.ID)
	assert.Equal(t, 9, a.RepresentativeComment.Likes)
	// two today against one yesterday
	assert.Equal(t, 100.0, a.GrowthRate)
	assert.True(t, a.Hot)

	c := ranks[1]
	assert.False(t, c.Hot)
	assert.Equal(t, 0.0, c.GrowthRate)

	b := ranks[2]
	assert.Equal(t, NoRepresentativeComment, b.RepresentativeComment.Content)
	assert.Equal(t, 0, b.RepresentativeComment.Likes)
	assert.True(t, b.Hot, "0 → 1 counts as 100% growth")
}

func TestRankTruncatesAndThreshold(t *testing.T) {
	ranks := RankLegalArticles(fixture(), 2, now)
	assert.Len(t, ranks, 2)

	strict := RankConfig{TopN: 5, HotGrowthThreshold: 100}.Rank(fixture(), now)
	for _, r := range strict {
		assert.False(t, r.Hot, r.ID)
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, RankLegalArticles(model.Dataset{}, 5, now))
}

func TestBuildHeatmapScenario(t *testing.T) {
	ds := model.Dataset{
		LegalArticles: []model.LegalArticle{{ID: "law", Category: "privacy"}},
		Incidents:     []model.Incident{{ID: "inc"}},
		Comments: []model.SocialComment{
			comment("r1", "inc", "law", model.StanceReform, 0, now),
			comment("r2", "inc", "law", model.StanceReform, 0, now),
			comment("r3", "inc", "law", model.StanceReform, 0, now),
			comment("o1", "inc", "law", model.StanceOppose, 0, now),
		},
	}
	cells := BuildHeatmap(ds)
	require.Len(t, cells, 3)

	assert.Equal(t, model.StanceReform, cells[0].Stance)
	assert.Equal(t, 75, cells[0].Percentage)
	assert.Equal(t, LevelHigh, cells[0].Level)
	assert.Equal(t, "#ef4444", cells[0].Color)
	assert.Equal(t, 1.0, cells[0].Intensity)

	assert.Equal(t, model.StanceAbolish, cells[1].Stance)
	assert.Equal(t, 0, cells[1].Percentage)
	assert.Equal(t, LevelLow, cells[1].Level)
	assert.Equal(t, "#22c55e", cells[1].Color)

	assert.Equal(t, model.StanceOppose, cells[2].Stance)
	assert.Equal(t, 25, cells[2].Percentage)
	assert.Equal(t, LevelMedium, cells[2].Level)
	assert.Equal(t, "#f59e0b", cells[2].Color)
	assert.Equal(t, 0.33, cells[2].Intensity)

	insights := HeatmapInsights(cells)
	require.Len(t, insights, 3)
	assert.Equal(t, InsightHighest, insights[0].Type)
	assert.Equal(t, 75, insights[0].Percentage)
	assert.Contains(t, insights[0].Description, "privacy")
	assert.Equal(t, InsightLowest, insights[1].Type)
	assert.Equal(t, model.StanceOppose, insights[1].Stance)
	assert.Equal(t, InsightReform, insights[2].Type)
}

func TestBuildHeatmapPercentagesSum(t *testing.T) {
	cells := BuildHeatmap(fixture())
	// labor has 4 comments, privacy 3
	require.Len(t, cells, 6)
	assert.Equal(t, "labor", cells[0].Category)
	assert.Equal(t, "privacy", cells[3].Category)

	sums := make(map[string]int)
	for _, c := range cells {
		sums[c.Category] += c.Percentage
		assert.GreaterOrEqual(t, c.Intensity, 0.0)
		assert.LessOrEqual(t, c.Intensity, 1.0)
	}
	for cat, sum := range sums {
		assert.InDelta(t, 100, sum, float64(len(model.Stances)), cat)
	}
}

func TestBuildHeatmapEmpty(t *testing.T) {
	cells := BuildHeatmap(model.Dataset{})
	assert.Empty(t, cells)
	assert.Empty(t, HeatmapInsights(cells))
}

func TestHeatmapInsightsWithoutReformDemand(t *testing.T) {
	cells := []HeatmapCell{
		{Category: "labor", Stance: model.StanceReform, StanceLabel: "개정강화", Percentage: 30},
		{Category: "labor", Stance: model.StanceAbolish, StanceLabel: "폐지약화", Percentage: 0},
		{Category: "labor", Stance: model.StanceOppose, StanceLabel: "현상유지", Percentage: 70},
	}
	insights := HeatmapInsights(cells)
	require.Len(t, insights, 2)
	assert.Equal(t, model.StanceOppose, insights[0].Stance)
	assert.Equal(t, model.StanceReform, insights[1].Stance)
}

func TestDetectRisingIssues(t *testing.T) {
	issues := DetectRisingIssues(fixture(), now, NoPlaceholders{})
	// inc-a1: 2 vs 0, inc-b: 1 vs 0, inc-a2: 0 vs 1 (negative), inc-c: 0 vs 0
	require.Len(t, issues, 2)
	assert.Equal(t, "inc-a1", issues[0].IncidentID)
	assert.Equal(t, 100.0, issues[0].GrowthRate)
	assert.Equal(t, 2, issues[0].Today)
	assert.Equal(t, "개인정보보호법 제2조", issues[0].LegalArticle)
	assert.Equal(t, "inc-b", issues[1].IncidentID)
	assert.False(t, issues[0].Placeholder)
}

func TestDetectRisingIssuesTopThree(t *testing.T) {
	ds := model.Dataset{}
	for i, name := range []string{"d", "c", "b", "a"} {
		id := "inc-" + name
		ds.Incidents = append(ds.Incidents, model.Incident{ID: id, Name: name})
		for j := 0; j <= i; j++ {
			ds.Comments = append(ds.Comments, comment(id+string(rune('0'+j)), id, "", model.StanceReform, 0, hoursAgo(1)))
		}
	}
	ds.Mappings = model.BuildMappings(ds)

	issues := DetectRisingIssues(ds, now, DemoPlaceholders{})
	require.Len(t, issues, MaxRisingIssues)
	// equal growth, so more comments today wins
	assert.Equal(t, []string{"inc-a", "inc-b", "inc-c"}, []string{issues[0].IncidentID, issues[1].IncidentID, issues[2].IncidentID})
	assert.Equal(t, NoRelatedLaw, issues[0].LegalArticle)
}

func TestDetectRisingIssuesFallback(t *testing.T) {
	ds := fixture()
	assert.Empty(t, DetectRisingIssues(ds, now.AddDate(0, 0, 30), NoPlaceholders{}))
	assert.Empty(t, DetectRisingIssues(ds, now.AddDate(0, 0, 30), nil))

	demo := DetectRisingIssues(ds, now.AddDate(0, 0, 30), DemoPlaceholders{})
	require.NotEmpty(t, demo)
	for _, d := range demo {
		assert.True(t, d.Placeholder)
	}
}

func TestBuildTrend(t *testing.T) {
	points := BuildTrend(fixture(), TrendConfig{Period: filter.Period7d}, now)
	require.Len(t, points, 7)
	assert.Equal(t, "2025-10-13", points[0].Date)
	assert.Equal(t, "2025-10-19", points[6].Date)

	for _, p := range points {
		require.Len(t, p.Articles, 3)
		assert.Equal(t, []string{"#3b82f6", "#ef4444", "#10b981"},
			[]string{p.Articles[0].Color, p.Articles[1].Color, p.Articles[2].Color})
		assert.Equal(t, "개인정보보호법 제2조", p.Articles[0].Name)
	}
	// law-a: two comments on the 19th, one on the 18th
	assert.Equal(t, 2, points[6].Articles[0].Count)
	assert.Equal(t, 1, points[5].Articles[0].Count)
	// law-c: three comments on the 14th
	assert.Equal(t, 3, points[1].Articles[1].Count)
	assert.Equal(t, 0, points[0].Articles[1].Count)
}

func TestBuildTrendAllSpansFromEarliestComment(t *testing.T) {
	points := BuildTrend(fixture(), TrendConfig{Period: filter.PeriodAll}, now)
	require.Len(t, points, 6)
	assert.Equal(t, "2025-10-14", points[0].Date)

	ds := fixture()
	ds.Comments[4].CreatedAt = now.AddDate(-1, 0, 0)
	assert.Len(t, BuildTrend(ds, TrendConfig{Period: filter.PeriodAll, MaxDays: 90}, now), 90)
}

func TestBuildTrendAllIgnoresAncientTimestamp(t *testing.T) {
	ds := fixture()
	ds.Comments[4].CreatedAt = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

	points := BuildTrend(ds, TrendConfig{Period: filter.PeriodAll, MaxDays: 30}, now)
	require.Len(t, points, 30)
	assert.Equal(t, "2025-09-20", points[0].Date)
	assert.Equal(t, "2025-10-19", points[29].Date)
}

func TestBuildTrendLocation(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	// 2025-10-19 12:00 UTC is 21:00 KST; c1 and c2 stay on the 19th
	points := BuildTrend(fixture(), TrendConfig{Period: filter.Period7d, Location: kst}, now)
	require.Len(t, points, 7)
	assert.Equal(t, "2025-10-19", points[6].Date)
	assert.Equal(t, 2, points[6].Articles[0].Count)
}

func TestBuildTrendEmpty(t *testing.T) {
	assert.Empty(t, BuildTrend(model.Dataset{}, TrendConfig{Period: filter.Period7d}, now))
}

func TestBuildNetwork(t *testing.T) {
	g := BuildNetwork(fixture(), DefaultNetworkConfig(), NoPlaceholders{})
	assert.False(t, g.Placeholder)
	require.Len(t, g.Nodes, 7)
	require.Len(t, g.Links, 4)

	byID := make(map[string]NetworkNode)
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	a := byID["law-a"]
	assert.Equal(t, NodeLegal, a.Type)
	assert.Equal(t, 3, a.CommentCount)
	// sqrt(3) × 8 = 13.9, clamped to 20
	assert.Equal(t, 20.0, a.Size)

	inc := byID["inc-a1"]
	assert.Equal(t, NodeIncident, inc.Type)
	assert.Equal(t, 8.0, inc.Size)
	assert.NotEqual(t, a.Color, inc.Color)
	assert.Equal(t, byID["inc-a2"].Color, inc.Color)
	assert.NotEqual(t, byID["law-b"].Color, a.Color)

	for _, l := range g.Links {
		assert.Contains(t, byID, l.Source)
		assert.Equal(t, NodeLegal, byID[l.Target].Type)
		assert.GreaterOrEqual(t, l.Strength, 1.0)
		assert.LessOrEqual(t, l.Strength, 10.0)
	}
	assert.Equal(t, NetworkLink{Source: "inc-a1", Target: "law-a", Value: 2, Strength: 2.1}, g.Links[0])
}

func TestBuildNetworkTopArticles(t *testing.T) {
	cfg := DefaultNetworkConfig()
	cfg.TopArticles = 1
	g := BuildNetwork(fixture(), cfg, NoPlaceholders{})
	var legal int
	for _, n := range g.Nodes {
		if n.Type == NodeLegal {
			legal++
			assert.Equal(t, "law-a", n.ID)
		}
	}
	assert.Equal(t, 1, legal)
	assert.Len(t, g.Links, 2)
}

func TestBuildNetworkFallback(t *testing.T) {
	empty := BuildNetwork(model.Dataset{}, DefaultNetworkConfig(), NoPlaceholders{})
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Links)
	assert.NotNil(t, empty.Nodes)

	demo := BuildNetwork(model.Dataset{}, DefaultNetworkConfig(), DemoPlaceholders{})
	assert.True(t, demo.Placeholder)
	assert.NotEmpty(t, demo.Links)
}
