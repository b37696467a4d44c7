package metrics

import (
	"sort"

	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// NodeType distinguishes the two kinds of graph node.
type NodeType string

const (
	NodeLegal    NodeType = "legal"
	NodeIncident NodeType = "incident"
)

// NetworkNode is a legal article or an incident.
type NetworkNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         NodeType `json:"type"`
	Category     string   `json:"category"`
	CommentCount int      `json:"commentCount"`
	Size         float64  `json:"size"`
	Color        string   `json:"color"`
}

// NetworkLink connects an incident to a legal article.
type NetworkLink struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Value    int     `json:"value"`
	Strength float64 `json:"strength"`
}

// NetworkGraph is the incident → legal article graph.
type NetworkGraph struct {
	Nodes       []NetworkNode `json:"nodes"`
	Links       []NetworkLink `json:"links"`
	Placeholder bool          `json:"placeholder,omitempty"`
}

// NetworkConfig sizes the graph.
type NetworkConfig struct {
	TopArticles  int
	LegalSize    Scale
	IncidentSize Scale
	LinkStrength Scale
}

// DefaultNetworkConfig returns the dashboard defaults.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		TopArticles:  5,
		LegalSize:    Scale{Min: 20, Max: 60, Factor: 8},
		IncidentSize: Scale{Min: 8, Max: 30, Factor: 4},
		LinkStrength: Scale{Min: 1, Max: 10, Factor: 1.5},
	}
}

// legal and incident shades, indexed by category position
var (
	legalPalette    = []string{"#2563eb", "#dc2626", "#16a34a", "#9333ea", "#ea580c", "#0891b2", "#db2777", "#4b5563"}
	incidentPalette = []string{"#93c5fd", "#fca5a5", "#86efac", "#d8b4fe", "#fdba74", "#67e8f9", "#f9a8d4", "#d1d5db"}
)

// BuildNetwork links the most discussed legal articles of ds to the
// incidents their comments come from. An empty graph is replaced by
// policy.NetworkGraph().
func BuildNetwork(ds model.Dataset, cfg NetworkConfig, policy PlaceholderPolicy) NetworkGraph {
	if policy == nil {
		policy = NoPlaceholders{}
	}
	if cfg.TopArticles <= 0 {
		cfg.TopArticles = DefaultNetworkConfig().TopArticles
	}
	idx := model.NewIndex(ds)

	top := legalByCommentCount(ds, cfg.TopArticles)
	selected := make(map[string]struct{}, len(top))
	for _, la := range top {
		selected[la.article.ID] = struct{}{}
	}

	type pair struct{ incident, legal string }
	pairCounts := make(map[pair]int)
	incidentCounts := make(map[string]int)
	var incidentOrder []string
	for _, c := range ds.Comments {
		if _, ok := selected[c.LegalArticleID]; !ok {
			continue
		}
		if _, ok := idx.Incident(c.IncidentID); !ok {
			continue
		}
		if _, seen := incidentCounts[c.IncidentID]; !seen {
			incidentOrder = append(incidentOrder, c.IncidentID)
		}
		incidentCounts[c.IncidentID]++
		pairCounts[pair{c.IncidentID, c.LegalArticleID}]++
	}

	categories := make(map[string]struct{})
	for _, la := range top {
		categories[la.article.Category] = struct{}{}
	}
	for _, id := range incidentOrder {
		inc, _ := idx.Incident(id)
		categories[inc.Category] = struct{}{}
	}
	shade := categoryShades(categories)

	g := NetworkGraph{
		Nodes: make([]NetworkNode, 0, len(top)+len(incidentOrder)),
		Links: make([]NetworkLink, 0, len(pairCounts)),
	}
	for _, la := range top {
		g.Nodes = append(g.Nodes, NetworkNode{
			ID:           la.article.ID,
			Name:         la.article.FullName,
			Type:         NodeLegal,
			Category:     la.article.Category,
			CommentCount: la.comments,
			Size:         round1(cfg.LegalSize.Apply(la.comments)),
			Color:        legalPalette[shade[la.article.Category]%len(legalPalette)],
		})
	}
	for _, id := range incidentOrder {
		inc, _ := idx.Incident(id)
		g.Nodes = append(g.Nodes, NetworkNode{
			ID:           inc.ID,
			Name:         inc.Name,
			Type:         NodeIncident,
			Category:     inc.Category,
			CommentCount: incidentCounts[id],
			Size:         round1(cfg.IncidentSize.Apply(incidentCounts[id])),
			Color:        incidentPalette[shade[inc.Category]%len(incidentPalette)],
		})
	}

	pairs := make([]pair, 0, len(pairCounts))
	for p := range pairCounts {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].incident != pairs[j].incident {
			return pairs[i].incident < pairs[j].incident
		}
		return pairs[i].legal < pairs[j].legal
	})
	for _, p := range pairs {
		n := pairCounts[p]
		g.Links = append(g.Links, NetworkLink{
			Source:   p.incident,
			Target:   p.legal,
			Value:    n,
			Strength: round1(cfg.LinkStrength.Apply(n)),
		})
	}

	if len(g.Nodes) == 0 || len(g.Links) == 0 {
		return policy.NetworkGraph()
	}
	return g
}

type rankedArticle struct {
	article  model.LegalArticle
	comments int
}

// legalByCommentCount returns the n articles with the most comments. Articles
// without comments are left out.
func legalByCommentCount(ds model.Dataset, n int) []rankedArticle {
	counts := make(map[string]int)
	for _, c := range ds.Comments {
		counts[c.LegalArticleID]++
	}
	out := make([]rankedArticle, 0, len(ds.LegalArticles))
	for _, la := range ds.LegalArticles {
		if counts[la.ID] == 0 {
			continue
		}
		out = append(out, rankedArticle{article: la, comments: counts[la.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].comments > out[j].comments
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// categoryShades assigns palette positions by sorted category name.
func categoryShades(categories map[string]struct{}) map[string]int {
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)
	out := make(map[string]int, len(names))
	for i, c := range names {
		out[c] = i
	}
	return out
}
