package lawdemand

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/lawdemand/pkg/lawdemand/config"
	"github.com/cognicore/lawdemand/pkg/lawdemand/extract"
	"github.com/cognicore/lawdemand/pkg/lawdemand/fetch"
	"github.com/cognicore/lawdemand/pkg/lawdemand/filter"
	"github.com/cognicore/lawdemand/pkg/lawdemand/metrics"
	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
	"github.com/cognicore/lawdemand/pkg/lawdemand/raw"
)

// Engine is the main facade: it loads the raw documents and turns them into
// dashboard snapshots.
type Engine struct {
	cfg       config.Config
	loader    *fetch.Loader
	extractor *extract.Extractor
	view      viewSettings
	log       *zap.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine
type Options struct {
	Config config.Config
	// Source reads raw documents. Default: fetch.AutoSource
	Source fetch.Source
	Logger *zap.Logger
}

// New creates an Engine. The config is validated.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	loc, err := opts.Config.Location()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Source == nil {
		opts.Source = fetch.AutoSource{
			HTTP: fetch.HTTPSource{Client: &http.Client{Timeout: opts.Config.Fetch.Timeout}},
		}
	}

	grans := make([]raw.Granularity, 0, len(opts.Config.Extract.Granularities))
	for _, g := range opts.Config.Extract.Granularities {
		grans = append(grans, raw.Granularity(strings.ToLower(g)))
	}

	return &Engine{
		cfg: opts.Config,
		loader: fetch.NewLoader(opts.Source, fetch.Options{
			Attempts: opts.Config.Fetch.Attempts,
			Backoff:  opts.Config.Fetch.Backoff,
			Logger:   opts.Logger.Named("fetch"),
		}),
		extractor: extract.New(extract.Options{
			Granularities: grans,
			Location:      loc,
			Logger:        opts.Logger.Named("extract"),
		}),
		view:    newViewSettings(opts.Config, loc),
		log:     opts.Logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Load fetches both configured documents and builds a snapshot from them.
func (e *Engine) Load(ctx context.Context) (*Snapshot, error) {
	res, err := e.loader.Load(ctx, e.cfg.Sources.Social, e.cfg.Sources.News)
	if err != nil {
		e.log.Error("load failed", zap.Error(err))
		return nil, err
	}
	snap := e.Build(res.Social, res.News)
	snap.SocialBytes = res.SocialBytes
	snap.NewsBytes = res.NewsBytes
	e.log.Info("snapshot loaded",
		zap.String("load_id", snap.LoadID),
		zap.Int("social_bytes", res.SocialBytes),
		zap.Int("news_bytes", res.NewsBytes),
		zap.Int("comments", len(snap.Data.Comments)),
		zap.Int("news", len(snap.Data.News)))
	return snap, nil
}

// Build extracts a snapshot from already decoded documents. Either may be nil.
func (e *Engine) Build(social, news raw.Document) *Snapshot {
	now := time.Now()
	ds, stats := e.extractor.ExtractWithStats(social, news)
	return &Snapshot{
		LoadID:   e.newID(now),
		LoadedAt: now,
		Data:     ds,
		Stats:    stats,
		engine:   e,
	}
}

func (e *Engine) newID(t time.Time) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), e.entropy).String()
}

// viewSettings are the metric parameters a Snapshot computes dashboards with.
type viewSettings struct {
	rank     metrics.RankConfig
	network  metrics.NetworkConfig
	maxDays  int
	policy   metrics.PlaceholderPolicy
	location *time.Location
}

func newViewSettings(cfg config.Config, loc *time.Location) viewSettings {
	var policy metrics.PlaceholderPolicy = metrics.NoPlaceholders{}
	if cfg.Metrics.Placeholders {
		policy = metrics.DemoPlaceholders{}
	}
	n := cfg.Metrics.Network
	return viewSettings{
		rank: metrics.RankConfig{
			TopN:               cfg.Metrics.TopN,
			HotGrowthThreshold: cfg.Metrics.HotGrowthThreshold,
		},
		network: metrics.NetworkConfig{
			TopArticles:  n.TopArticles,
			LegalSize:    metrics.Scale{Min: n.LegalMinSize, Max: n.LegalMaxSize, Factor: n.LegalScale},
			IncidentSize: metrics.Scale{Min: n.IncidentMinSize, Max: n.IncidentMaxSize, Factor: n.IncidentScale},
			LinkStrength: metrics.Scale{Min: n.LinkMin, Max: n.LinkMax, Factor: n.LinkScale},
		},
		maxDays:  cfg.Metrics.TrendMaxDays,
		policy:   policy,
		location: loc,
	}
}

// defaultViewSettings serves snapshots built without an Engine.
var defaultViewSettings = sync.OnceValue(func() viewSettings {
	cfg := config.Default()
	loc, err := cfg.Location()
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return newViewSettings(cfg, loc)
})

// Snapshot is the processed model of one load. It is never mutated after
// Build returns, so Dashboard may be called concurrently. A Snapshot not
// created by an Engine computes dashboards with the default config.
type Snapshot struct {
	LoadID      string        `json:"loadId"`
	LoadedAt    time.Time     `json:"loadedAt"`
	SocialBytes int           `json:"socialBytes"`
	NewsBytes   int           `json:"newsBytes"`
	Data        model.Dataset `json:"processedData"`
	Stats       extract.Stats `json:"-"`

	engine *Engine
}

// Dashboard is every output of one recomputation.
type Dashboard struct {
	LoadID       string                     `json:"loadId"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
	Filter       filter.Criteria            `json:"filter"`
	Data         model.Dataset              `json:"processedData"`
	KPI          metrics.KPIMetrics         `json:"kpi"`
	Ranking      []metrics.LegalArticleRank `json:"ranking"`
	Heatmap      []metrics.HeatmapCell      `json:"heatmap"`
	Insights     []metrics.HeatmapInsight   `json:"insights"`
	RisingIssues []metrics.RisingIssue      `json:"risingIssues"`
	Trend        []metrics.TrendPoint       `json:"trend"`
	Network      metrics.NetworkGraph       `json:"network"`
}

// Dashboard filters the snapshot by c and runs every metric computer over
// the result. The same snapshot, criteria and now always give the same
// dashboard.
func (s *Snapshot) Dashboard(c filter.Criteria, now time.Time) (Dashboard, error) {
	if err := c.Validate(); err != nil {
		return Dashboard{}, err
	}
	period, err := filter.ParsePeriod(string(c.Period))
	if err != nil {
		return Dashboard{}, err
	}
	c.Period = period
	set := defaultViewSettings()
	if s.engine != nil {
		set = s.engine.view
	}

	view := filter.Apply(s.Data, c, now)
	week := filter.ApplyWindow(s.Data, filter.Period7d.Window(now), c.Categories, c.Sources)
	prior := filter.ApplyWindow(s.Data, priorWeek(now), c.Categories, c.Sources)
	cells := metrics.BuildHeatmap(view)

	return Dashboard{
		LoadID:       s.LoadID,
		GeneratedAt:  now,
		Filter:       c,
		Data:         view,
		KPI:          metrics.ComputeKPI(view, week, prior),
		Ranking:      set.rank.Rank(view, now),
		Heatmap:      cells,
		Insights:     metrics.HeatmapInsights(cells),
		RisingIssues: metrics.DetectRisingIssues(view, now, set.policy),
		Trend: metrics.BuildTrend(view, metrics.TrendConfig{
			Period:   period,
			Location: set.location,
			MaxDays:  set.maxDays,
		}, now),
		Network: metrics.BuildNetwork(view, set.network, set.policy),
	}, nil
}

// priorWeek is the window from 14 to 7 days before now, excluding its end.
func priorWeek(now time.Time) filter.Window {
	return filter.Window{
		From: now.AddDate(0, 0, -14),
		To:   now.AddDate(0, 0, -7).Add(-time.Nanosecond),
	}
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot %s: %d legal articles, %d incidents, %d comments, %d news",
		s.LoadID, len(s.Data.LegalArticles), len(s.Data.Incidents), len(s.Data.Comments), len(s.Data.News))
}
