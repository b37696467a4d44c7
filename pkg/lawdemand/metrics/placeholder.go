package metrics

// PlaceholderPolicy supplies what the dashboard shows when a computer has no
// real result.
type PlaceholderPolicy interface {
	RisingIssues() []RisingIssue
	NetworkGraph() NetworkGraph
}

// NoPlaceholders returns empty results.
type NoPlaceholders struct{}

func (NoPlaceholders) RisingIssues() []RisingIssue { return []RisingIssue{} }

func (NoPlaceholders) NetworkGraph() NetworkGraph {
	return NetworkGraph{Nodes: []NetworkNode{}, Links: []NetworkLink{}}
}

// DemoPlaceholders returns fixed illustrative data, flagged as placeholders.
type DemoPlaceholders struct{}

func (DemoPlaceholders) RisingIssues() []RisingIssue {
	return []RisingIssue{
		{IncidentID: "demo-1", Name: "대형 플랫폼 개인정보 유출", Category: "개인정보", LegalArticle: "개인정보보호법 제29조", Today: 12, Yesterday: 4, GrowthRate: 200, Placeholder: true},
		{IncidentID: "demo-2", Name: "물류센터 과로 사고", Category: "노동", LegalArticle: "근로기준법 제50조", Today: 9, Yesterday: 5, GrowthRate: 80, Placeholder: true},
		{IncidentID: "demo-3", Name: "어린이집 안전사고", Category: "아동", LegalArticle: "영유아보육법 제33조", Today: 6, Yesterday: 4, GrowthRate: 50, Placeholder: true},
	}
}

func (DemoPlaceholders) NetworkGraph() NetworkGraph {
	cfg := DefaultNetworkConfig()
	node := func(id, name string, t NodeType, category string, comments int, color string) NetworkNode {
		size := cfg.IncidentSize
		if t == NodeLegal {
			size = cfg.LegalSize
		}
		return NetworkNode{
			ID:           id,
			Name:         name,
			Type:         t,
			Category:     category,
			CommentCount: comments,
			Size:         round1(size.Apply(comments)),
			Color:        color,
		}
	}
	link := func(source, target string, n int) NetworkLink {
		return NetworkLink{Source: source, Target: target, Value: n, Strength: round1(cfg.LinkStrength.Apply(n))}
	}
	return NetworkGraph{
		Nodes: []NetworkNode{
			node("demo-law-1", "개인정보보호법 제29조", NodeLegal, "개인정보", 40, legalPalette[0]),
			node("demo-law-2", "근로기준법 제50조", NodeLegal, "노동", 25, legalPalette[1]),
			node("demo-1", "대형 플랫폼 개인정보 유출", NodeIncident, "개인정보", 30, incidentPalette[0]),
			node("demo-4", "공공기관 해킹", NodeIncident, "개인정보", 10, incidentPalette[0]),
			node("demo-2", "물류센터 과로 사고", NodeIncident, "노동", 25, incidentPalette[1]),
		},
		Links: []NetworkLink{
			link("demo-1", "demo-law-1", 30),
			link("demo-2", "demo-law-2", 25),
			link("demo-4", "demo-law-1", 10),
		},
		Placeholder: true,
	}
}
