package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

// incident is one sub-category of the synthetic corpus.
type incident struct {
	domain string
	mid    string
	name   string
	law    string
	// bias towards reform, abolish, oppose
	weights [3]int
}

var incidents = []incident{
	{"개인정보", "유출", "쿠팡 개인정보 유출", "개인정보보호법 제29조", [3]int{6, 1, 2}},
	{"개인정보", "유출", "통신사 해킹", "정보통신망법 제28조", [3]int{5, 2, 2}},
	{"노동", "산업재해", "물류센터 과로사", "근로기준법 제50조", [3]int{7, 1, 1}},
	{"노동", "산업재해", "건설현장 추락", "산업안전보건법 제38조", [3]int{4, 1, 3}},
	{"아동", "보육", "어린이집 학대", "영유아보육법 제33조의2", [3]int{6, 0, 2}},
	{"환경", "오염", "하천 폐수 유출", "물환경보전법 제15조 제1항", [3]int{3, 2, 4}},
}

var (
	stanceKeys = []string{"reform", "abolish", "oppose"}
	sources    = []string{"naver", "youtube", "dcinside", "twitter"}
	comments   = map[string][]string{
		"reform":  {"처벌을 강화해야 합니다", "법 개정이 시급합니다", "과징금을 대폭 올려야 한다"},
		"abolish": {"규제가 과도합니다", "이 조항은 폐지해야 합니다"},
		"oppose":  {"현행법으로 충분합니다", "개정은 신중해야 한다"},
	}
	outlets = []string{
		"https://www.chosun.com/national/%d",
		"https://www.hani.co.kr/arti/%d.html",
		"https://n.news.naver.com/article/%d",
		"https://www.yna.co.kr/view/AKR%d",
		"https://news.kbs.co.kr/news/view.do?ncd=%d",
	}
)

type reaction struct {
	Content   string `json:"content"`
	Source    string `json:"source"`
	Likes     int    `json:"likes"`
	Timestamp string `json:"timestamp"`
}

type article struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// tree is domain → granularity → bucket → mid → {count, subcategories}.
type tree map[string]map[string]map[string]map[string]map[string]any

func (t tree) put(domain, gran, bucket, mid, sub string, payload map[string]any, count int) {
	if t[domain] == nil {
		t[domain] = make(map[string]map[string]map[string]map[string]any)
	}
	if t[domain][gran] == nil {
		t[domain][gran] = make(map[string]map[string]map[string]any)
	}
	if t[domain][gran][bucket] == nil {
		t[domain][gran][bucket] = make(map[string]map[string]any)
	}
	m := t[domain][gran][bucket][mid]
	if m == nil {
		m = map[string]any{"count": 0, "subcategories": map[string]any{}}
		t[domain][gran][bucket][mid] = m
	}
	m["count"] = m["count"].(int) + count
	m["subcategories"].(map[string]any)[sub] = payload
}

func main() {
	var (
		out    = flag.String("out", "testdata/sample", "Output directory")
		days   = flag.Int("days", 21, "Number of daily buckets to generate")
		end    = flag.String("end", "", "Last bucket date, YYYY-MM-DD (default: today)")
		seed   = flag.Uint64("seed", 1, "Random seed")
		volume = flag.Int("volume", 12, "Mean reactions per incident per day")
	)
	flag.Parse()

	kst := time.FixedZone("KST", 9*60*60)
	last := time.Now().In(kst)
	if *end != "" {
		t, err := time.ParseInLocation("2006-01-02", *end, kst)
		if err != nil {
			log.Fatalf("invalid --end: %v", err)
		}
		last = t
	}
	last = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, kst)

	social, news := generate(last, *days, *volume, *seed)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}
	for name, doc := range map[string]tree{"social.json": social, "news.json": news} {
		path := filepath.Join(*out, name)
		if err := write(path, doc); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}
}

// generate builds days daily buckets ending at last. The same seed gives the
// same documents.
func generate(last time.Time, days, volume int, seed uint64) (social, news tree) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	social, news = tree{}, tree{}
	articleSeq := 1000

	for d := days - 1; d >= 0; d-- {
		day := last.AddDate(0, 0, -d)
		bucket := day.Format("2006-01-02")
		for i, inc := range incidents {
			// incidents start on different days so the corpus has history
			if d > days-1-i*2 {
				continue
			}
			reactions := make(map[string][]reaction)
			n := rng.IntN(volume*2 + 1)
			for j := 0; j < n; j++ {
				stance := pickStance(rng, inc.weights)
				at := day.Add(time.Duration(rng.IntN(24*60)) * time.Minute)
				reactions[stance] = append(reactions[stance], reaction{
					Content:   comments[stance][rng.IntN(len(comments[stance]))],
					Source:    sources[rng.IntN(len(sources))],
					Likes:     rng.IntN(50),
					Timestamp: at.Format("20060102150405"),
				})
			}
			social.put(inc.domain, "daily", bucket, inc.mid, inc.name, map[string]any{
				"count":      n,
				"relatedLaw": inc.law,
				"reactions":  reactions,
			}, n)

			var articles []article
			for j := rng.IntN(3); j > 0; j-- {
				articleSeq++
				at := day.Add(time.Duration(6+rng.IntN(14)) * time.Hour)
				articles = append(articles, article{
					Title:       fmt.Sprintf("%s 관련 보도 %d", inc.name, articleSeq),
					Content:     fmt.Sprintf("%s 논란이 이어지고 있다.", inc.law),
					URL:         fmt.Sprintf(outlets[rng.IntN(len(outlets))], articleSeq),
					PublishedAt: at.Format(time.RFC3339),
				})
			}
			if len(articles) > 0 {
				news.put(inc.domain, "daily", bucket, inc.mid, inc.name, map[string]any{
					"count":      len(articles),
					"relatedLaw": inc.law,
					"articles":   articles,
				}, len(articles))
			}
		}
	}
	return social, news
}

func pickStance(rng *rand.Rand, weights [3]int) string {
	total := weights[0] + weights[1] + weights[2]
	r := rng.IntN(total)
	for i, w := range weights {
		if r < w {
			return stanceKeys[i]
		}
		r -= w
	}
	return stanceKeys[len(stanceKeys)-1]
}

func write(path string, doc tree) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
