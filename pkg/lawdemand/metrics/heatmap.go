package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// Level buckets a heatmap percentage.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Color returns the display color of the level.
func (l Level) Color() string {
	switch l {
	case LevelHigh:
		return "#ef4444"
	case LevelMedium:
		return "#f59e0b"
	}
	return "#22c55e"
}

// LevelFor maps a percentage onto a Level.
func LevelFor(percentage int) Level {
	switch {
	case percentage >= 50:
		return LevelHigh
	case percentage >= 20:
		return LevelMedium
	}
	return LevelLow
}

// HeatmapCell is one category × stance cell.
type HeatmapCell struct {
	Category    string       `json:"category"`
	Stance      model.Stance `json:"stance"`
	StanceLabel string       `json:"stanceLabel"`
	Count       int          `json:"count"`
	Percentage  int          `json:"percentage"`
	Intensity   float64      `json:"intensity"`
	Level       Level        `json:"level"`
	Color       string       `json:"color"`
}

// BuildHeatmap builds the category × stance matrix over the comments of ds.
// Comments whose legal article is not in ds have no category and are not
// counted.
func BuildHeatmap(ds model.Dataset) []HeatmapCell {
	idx := model.NewIndex(ds)
	dist := make(map[string]*StanceDistribution)
	for _, c := range ds.Comments {
		cat := idx.CommentCategory(c)
		if cat == "" {
			continue
		}
		d, ok := dist[cat]
		if !ok {
			d = &StanceDistribution{}
			dist[cat] = d
		}
		d.Add(c.Stance)
	}
	if len(dist) == 0 {
		return []HeatmapCell{}
	}

	categories := make([]string, 0, len(dist))
	maxCount := 0
	for cat, d := range dist {
		categories = append(categories, cat)
		for _, s := range model.Stances {
			if n := d.Get(s); n > maxCount {
				maxCount = n
			}
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		ti, tj := dist[categories[i]].Total(), dist[categories[j]].Total()
		if ti != tj {
			return ti > tj
		}
		return categories[i] < categories[j]
	})

	cells := make([]HeatmapCell, 0, len(categories)*len(model.Stances))
	for _, cat := range categories {
		d := dist[cat]
		for _, s := range model.Stances {
			count := d.Get(s)
			pct := int(math.Round(percent(count, d.Total())))
			level := LevelFor(pct)
			intensity := 0.0
			if maxCount > 0 {
				intensity = math.Round(float64(count)/float64(maxCount)*100) / 100
			}
			cells = append(cells, HeatmapCell{
				Category:    cat,
				Stance:      s,
				StanceLabel: s.Label(),
				Count:       count,
				Percentage:  pct,
				Intensity:   intensity,
				Level:       level,
				Color:       level.Color(),
			})
		}
	}
	return cells
}

// InsightType names the rule that produced a HeatmapInsight.
type InsightType string

const (
	InsightHighest InsightType = "highest"
	InsightLowest  InsightType = "lowest"
	InsightReform  InsightType = "reform"
)

// ReformInsightThreshold is the reform share, in percent, that marks a
// category as demanding legislative change.
const ReformInsightThreshold = 40

// HeatmapInsight is one sentence derived from the matrix.
type HeatmapInsight struct {
	Type        InsightType  `json:"type"`
	Category    string       `json:"category"`
	Stance      model.Stance `json:"stance"`
	Percentage  int          `json:"percentage"`
	Description string       `json:"description"`
}

// HeatmapInsights derives at most three insights from cells: the highest
// cell, the lowest non-zero cell and the category with the largest reform
// share at or above ReformInsightThreshold. Earlier cells win ties.
func HeatmapInsights(cells []HeatmapCell) []HeatmapInsight {
	out := make([]HeatmapInsight, 0, 3)
	if len(cells) == 0 {
		return out
	}

	highest, lowest, reform := -1, -1, -1
	for i, c := range cells {
		if highest < 0 || c.Percentage > cells[highest].Percentage {
			highest = i
		}
		if c.Percentage > 0 && (lowest < 0 || c.Percentage < cells[lowest].Percentage) {
			lowest = i
		}
		if c.Stance == model.StanceReform && c.Percentage >= ReformInsightThreshold &&
			(reform < 0 || c.Percentage > cells[reform].Percentage) {
			reform = i
		}
	}

	if h := cells[highest]; h.Percentage > 0 {
		out = append(out, insight(InsightHighest, h,
			fmt.Sprintf("%s 분야에서 '%s' 의견이 %d%%로 가장 높습니다.", h.Category, h.StanceLabel, h.Percentage)))
	}
	if lowest >= 0 && lowest != highest {
		l := cells[lowest]
		out = append(out, insight(InsightLowest, l,
			fmt.Sprintf("%s 분야의 '%s' 의견은 %d%%로 가장 낮습니다.", l.Category, l.StanceLabel, l.Percentage)))
	}
	if reform >= 0 {
		r := cells[reform]
		out = append(out, insight(InsightReform, r,
			fmt.Sprintf("%s 분야는 개정강화 요구가 %d%%로 법 개정 논의가 필요합니다.", r.Category, r.Percentage)))
	}
	return out
}

func insight(t InsightType, c HeatmapCell, desc string) HeatmapInsight {
	return HeatmapInsight{
		Type:        t,
		Category:    c.Category,
		Stance:      c.Stance,
		Percentage:  c.Percentage,
		Description: desc,
	}
}
