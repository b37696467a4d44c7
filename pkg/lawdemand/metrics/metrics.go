// Package metrics computes the dashboard figures from a filtered dataset.
//
// Every computer is a pure function of its inputs: no state is kept between
// calls and every ratio has an explicit zero-denominator branch.
package metrics

import (
	"math"
	"time"

	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
)

// Sentinels shown when a reference cannot be resolved.
const (
	NoRelatedLaw            = "관련 법률 없음"
	NoRepresentativeComment = "대표 댓글 없음"
)

// GrowthRate is the percentage change from yesterday to today.
// 0 → n is 100, 0 → 0 is 0.
func GrowthRate(today, yesterday int) float64 {
	switch {
	case yesterday == 0 && today > 0:
		return 100
	case yesterday == 0:
		return 0
	}
	return float64(today-yesterday) / float64(yesterday) * 100
}

// Scale bounds a square-root scaling: clamp(Min, Max, sqrt(n) * Factor).
type Scale struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Factor float64 `json:"factor"`
}

// Apply scales n.
func (s Scale) Apply(n int) float64 {
	if n < 0 {
		n = 0
	}
	return clamp(s.Min, s.Max, math.Sqrt(float64(n))*s.Factor)
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// dayWindows splits the last 48 hours before now into (now-24h, now] and
// (now-48h, now-24h].
type dayWindows struct {
	todayFrom     time.Time
	yesterdayFrom time.Time
	now           time.Time
}

func newDayWindows(now time.Time) dayWindows {
	return dayWindows{
		todayFrom:     now.Add(-24 * time.Hour),
		yesterdayFrom: now.Add(-48 * time.Hour),
		now:           now,
	}
}

func (w dayWindows) today(t time.Time) bool {
	return t.After(w.todayFrom) && !t.After(w.now)
}

func (w dayWindows) yesterday(t time.Time) bool {
	return t.After(w.yesterdayFrom) && !t.After(w.todayFrom)
}

// commentsBy groups comments by a key, preserving order.
func commentsBy(comments []model.SocialComment, key func(model.SocialComment) string) map[string][]model.SocialComment {
	out := make(map[string][]model.SocialComment)
	for _, c := range comments {
		k := key(c)
		if k == "" {
			continue
		}
		out[k] = append(out[k], c)
	}
	return out
}
