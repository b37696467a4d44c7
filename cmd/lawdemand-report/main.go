package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/lawdemand/internal/logging"
	"github.com/cognicore/lawdemand/pkg/lawdemand"
	"github.com/cognicore/lawdemand/pkg/lawdemand/config"
	"github.com/cognicore/lawdemand/pkg/lawdemand/filter"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional: YAML config file")
		social     = flag.String("social", "", "Social reactions document (URL or path); overrides config")
		news       = flag.String("news", "", "News document (URL or path); overrides config")
		period     = flag.String("period", "7d", "Period: 7d, 14d, 30d or all")
		categories = flag.String("category", "", "Comma-separated categories (empty = all)")
		sources    = flag.String("source", "", "Comma-separated sources: naver,youtube,dcinside,twitter (empty = all)")
		nowFlag    = flag.String("now", "", "Optional: reference time, RFC 3339 (default: current time)")
		section    = flag.String("section", "", "Optional: print one section only (kpi, ranking, heatmap, insights, rising, trend, network, data)")
		logLevel   = flag.String("log-level", "", "Optional: debug, info, warn or error; overrides config")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *social != "" {
		cfg.Sources.Social = *social
	}
	if *news != "" {
		cfg.Sources.News = *news
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if cfg.Sources.Social == "" && cfg.Sources.News == "" {
		log.Fatal("--social or --news required (or sources in --config)")
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logging.Sync(logger)

	p, err := filter.ParsePeriod(*period)
	if err != nil {
		logger.Fatal("invalid period", zap.Error(err))
	}
	criteria := filter.Criteria{
		Period:     p,
		Categories: splitList(*categories),
		Sources:    splitList(*sources),
	}

	now := time.Now()
	if *nowFlag != "" {
		now, err = time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			logger.Fatal("invalid --now", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine, err := lawdemand.New(lawdemand.Options{Config: cfg, Logger: logger})
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}
	snap, err := engine.Load(ctx)
	if err != nil {
		logger.Fatal("load documents", zap.Error(err))
	}
	logger.Info("extraction stats",
		zap.Int("skipped_sub_categories", snap.Stats.SkippedSubcategories),
		zap.Int("skipped_comments", snap.Stats.SkippedComments),
		zap.Int("skipped_news", snap.Stats.SkippedNews),
		zap.Int("duplicate_comments", snap.Stats.DuplicateComments),
		zap.Int("duplicate_news", snap.Stats.DuplicateNews))

	dash, err := snap.Dashboard(criteria, now)
	if err != nil {
		logger.Fatal("compute dashboard", zap.Error(err))
	}

	out, err := pick(dash, *section)
	if err != nil {
		logger.Fatal("select section", zap.Error(err))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("marshal dashboard", zap.Error(err))
	}
	fmt.Println(string(data))
}

func pick(d lawdemand.Dashboard, section string) (any, error) {
	switch strings.ToLower(section) {
	case "":
		return d, nil
	case "kpi":
		return d.KPI, nil
	case "ranking":
		return d.Ranking, nil
	case "heatmap":
		return d.Heatmap, nil
	case "insights":
		return d.Insights, nil
	case "rising":
		return d.RisingIssues, nil
	case "trend":
		return d.Trend, nil
	case "network":
		return d.Network, nil
	case "data":
		return d.Data, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
