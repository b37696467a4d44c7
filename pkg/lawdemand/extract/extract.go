package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/lawdemand/pkg/lawdemand/identity"
	"github.com/cognicore/lawdemand/pkg/lawdemand/model"
	"github.com/cognicore/lawdemand/pkg/lawdemand/raw"
)

// Options configures an Extractor.
type Options struct {
	// Granularities to walk. Default: daily only, since weekly and monthly
	// buckets are roll-ups of the same records.
	Granularities []raw.Granularity
	// Location compact timestamps are written in. Default: UTC
	Location *time.Location
	Logger   *zap.Logger
}

// Extractor flattens the two raw corpora into a model.Dataset.
type Extractor struct {
	grans []raw.Granularity
	loc   *time.Location
	log   *zap.Logger
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	if len(opts.Granularities) == 0 {
		opts.Granularities = []raw.Granularity{raw.Daily}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Extractor{
		grans: opts.Granularities,
		loc:   opts.Location,
		log:   opts.Logger,
	}
}

// Stats summarises one extraction run.
type Stats struct {
	SkippedSubcategories int
	SkippedComments      int
	SkippedNews          int
	DuplicateComments    int
	DuplicateNews        int
}

// Extract builds the dataset. Either document may be nil.
func (e *Extractor) Extract(social, news raw.Document) model.Dataset {
	ds, _ := e.ExtractWithStats(social, news)
	return ds
}

// ExtractWithStats is Extract plus counts of what was dropped.
func (e *Extractor) ExtractWithStats(social, news raw.Document) (model.Dataset, Stats) {
	b := newBuilder(e.loc)

	raw.Walk(social, e.grans, func(path raw.Path, mid raw.MidCategory) {
		mid.Subcategories(func(name string, payload json.RawMessage) {
			sub, err := raw.DecodeSocial(payload)
			if err != nil {
				b.stats.SkippedSubcategories++
				e.log.Debug("skip social sub-category",
					zap.String("domain", path.Domain),
					zap.String("bucket", path.Bucket),
					zap.String("sub_category", name),
					zap.Error(err))
				return
			}
			b.stats.SkippedComments += sub.Skipped
			b.addSocial(path, name, sub)
		})
	})

	raw.Walk(news, e.grans, func(path raw.Path, mid raw.MidCategory) {
		mid.Subcategories(func(name string, payload json.RawMessage) {
			sub, err := raw.DecodeNews(payload)
			if err != nil {
				b.stats.SkippedSubcategories++
				e.log.Debug("skip news sub-category",
					zap.String("domain", path.Domain),
					zap.String("bucket", path.Bucket),
					zap.String("sub_category", name),
					zap.Error(err))
				return
			}
			b.stats.SkippedNews += sub.Skipped
			b.addNews(path, name, sub)
		})
	})

	ds := b.dataset()
	e.log.Debug("extraction complete",
		zap.Int("legal_articles", len(ds.LegalArticles)),
		zap.Int("incidents", len(ds.Incidents)),
		zap.Int("comments", len(ds.Comments)),
		zap.Int("news", len(ds.News)),
		zap.Int("skipped_comments", b.stats.SkippedComments),
		zap.Int("skipped_news", b.stats.SkippedNews))
	return ds, b.stats
}

type builder struct {
	loc   *time.Location
	reg   *identity.Registry
	stats Stats

	laws      []model.LegalArticle
	incidents []*model.Incident
	byIncID   map[string]*model.Incident
	comments  []model.SocialComment
	news      []model.NewsArticle

	// first bucket start per incident, for incidents without timestamps
	firstBucket map[string]time.Time

	seenComments map[string]struct{}
	seenNews     map[string]struct{}
}

func newBuilder(loc *time.Location) *builder {
	return &builder{
		loc:          loc,
		reg:          identity.NewRegistry(),
		byIncID:      make(map[string]*model.Incident),
		firstBucket:  make(map[string]time.Time),
		seenComments: make(map[string]struct{}),
		seenNews:     make(map[string]struct{}),
	}
}

// resolve interns the legal article and incident of one sub-category.
func (b *builder) resolve(path raw.Path, name, relatedLaw string) (incID, lawID string) {
	law := identity.ParseLaw(relatedLaw)
	lawID, seen := b.reg.Law(law)
	if lawID != "" && !seen {
		b.laws = append(b.laws, model.LegalArticle{
			ID:       lawID,
			LawName:  law.Name,
			ClauseID: law.Clause,
			Category: path.Domain,
			FullName: law.FullName(),
		})
	}

	incID, seen = b.reg.Incident(path.Domain, name)
	if incID == "" {
		return "", lawID
	}
	if !seen {
		inc := &model.Incident{
			ID:          incID,
			Name:        strings.TrimSpace(name),
			Category:    path.Domain,
			MidCategory: path.MidCategory,
			RelatedLaw:  law.FullName(),
		}
		if start, ok := raw.BucketStart(path.Granularity, path.Bucket, b.loc); ok {
			b.firstBucket[incID] = start
		}
		b.incidents = append(b.incidents, inc)
		b.byIncID[incID] = inc
	} else if inc := b.byIncID[incID]; inc.RelatedLaw == "" {
		inc.RelatedLaw = law.FullName()
	}
	return incID, lawID
}

func (b *builder) addSocial(path raw.Path, name string, sub raw.SocialSubcategory) {
	incID, lawID := b.resolve(path, name, sub.RelatedLaw)
	if incID == "" {
		b.stats.SkippedSubcategories++
		return
	}
	bucketStart, hasBucket := raw.BucketStart(path.Granularity, path.Bucket, b.loc)

	for _, label := range sortedStanceKeys(sub.Reactions) {
		stance, ok := model.ParseStance(label)
		if !ok {
			b.stats.SkippedComments += len(sub.Reactions[label])
			continue
		}
		for _, r := range sub.Reactions[label] {
			source, ok := model.ParseSource(r.Source)
			if !ok {
				b.stats.SkippedComments++
				continue
			}
			ts, err := raw.ParseCompact(r.Timestamp, b.loc)
			if err != nil {
				ts, err = raw.ParseTimestamp(r.Timestamp, b.loc)
			}
			if err != nil {
				if !hasBucket {
					b.stats.SkippedComments++
					continue
				}
				ts = bucketStart
			}

			key := fmt.Sprintf("%s|%s|%s|%d|%s", incID, source, stance, ts.Unix(), r.Content)
			if _, dup := b.seenComments[key]; dup {
				b.stats.DuplicateComments++
				continue
			}
			b.seenComments[key] = struct{}{}

			likes := r.Likes
			if likes < 0 {
				likes = 0
			}
			b.comments = append(b.comments, model.SocialComment{
				ID:             fmt.Sprintf("cmt-%06d", len(b.comments)+1),
				Content:        strings.TrimSpace(r.Content),
				Source:         source,
				Stance:         stance,
				IncidentID:     incID,
				LegalArticleID: lawID,
				CreatedAt:      ts,
				Likes:          likes,
			})
			b.touch(incID, ts)
		}
	}
}

func (b *builder) addNews(path raw.Path, name string, sub raw.NewsSubcategory) {
	incID, lawID := b.resolve(path, name, sub.RelatedLaw)
	if incID == "" {
		b.stats.SkippedSubcategories++
		return
	}
	bucketStart, hasBucket := raw.BucketStart(path.Granularity, path.Bucket, b.loc)

	for _, rec := range sub.Articles {
		ts, err := raw.ParseTimestamp(rec.PublishedAt, b.loc)
		if err != nil {
			if !hasBucket {
				b.stats.SkippedNews++
				continue
			}
			ts = bucketStart
		}

		key := strings.TrimSpace(rec.URL)
		if key == "" {
			key = incID + "|" + strings.TrimSpace(rec.Title)
		}
		if _, dup := b.seenNews[key]; dup {
			b.stats.DuplicateNews++
			continue
		}
		b.seenNews[key] = struct{}{}

		b.news = append(b.news, model.NewsArticle{
			ID:             fmt.Sprintf("news-%06d", len(b.news)+1),
			Title:          strings.TrimSpace(rec.Title),
			Content:        strings.TrimSpace(rec.Content),
			URL:            strings.TrimSpace(rec.URL),
			Publisher:      Publisher(rec.URL),
			PublishedAt:    ts,
			IncidentID:     incID,
			LegalArticleID: lawID,
		})
		b.touch(incID, ts)
	}
}

// touch moves an incident's CreatedAt back to the earliest record.
func (b *builder) touch(incID string, ts time.Time) {
	inc, ok := b.byIncID[incID]
	if !ok {
		return
	}
	if inc.CreatedAt.IsZero() || ts.Before(inc.CreatedAt) {
		inc.CreatedAt = ts
	}
}

func (b *builder) dataset() model.Dataset {
	commentCounts := make(map[string]int)
	for _, c := range b.comments {
		commentCounts[c.IncidentID]++
	}
	newsCounts := make(map[string]int)
	for _, n := range b.news {
		newsCounts[n.IncidentID]++
	}

	incidents := make([]model.Incident, 0, len(b.incidents))
	for _, inc := range b.incidents {
		out := *inc
		out.CommentCount = commentCounts[inc.ID]
		out.NewsCount = newsCounts[inc.ID]
		if out.CreatedAt.IsZero() {
			out.CreatedAt = b.firstBucket[inc.ID]
		}
		incidents = append(incidents, out)
	}

	ds := model.Dataset{
		LegalArticles: b.laws,
		Incidents:     incidents,
		Comments:      b.comments,
		News:          b.news,
	}
	ds.Mappings = model.BuildMappings(ds)
	return ds
}

func sortedStanceKeys(m map[string][]raw.Reaction) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
