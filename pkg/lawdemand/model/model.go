package model

import (
	"strings"
	"time"
)

// Stance is a reaction label.
type Stance string

const (
	StanceReform  Stance = "reform"
	StanceAbolish Stance = "abolish"
	StanceOppose  Stance = "oppose"
)

// Stances lists every stance in display order.
var Stances = []Stance{StanceReform, StanceAbolish, StanceOppose}

var stanceAliases = map[string]Stance{
	"reform":  StanceReform,
	"abolish": StanceAbolish,
	"oppose":  StanceOppose,
	"개정강화":    StanceReform,
	"폐지약화":    StanceAbolish,
	"현상유지":    StanceOppose,
	"반대":      StanceOppose,
}

// ParseStance maps a raw stance label onto a Stance.
func ParseStance(s string) (Stance, bool) {
	st, ok := stanceAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// Label returns the Korean dashboard label.
func (s Stance) Label() string {
	switch s {
	case StanceReform:
		return "개정강화"
	case StanceAbolish:
		return "폐지약화"
	case StanceOppose:
		return "현상유지"
	}
	return string(s)
}

// Source is a social channel.
type Source string

const (
	SourceNaver    Source = "naver"
	SourceYoutube  Source = "youtube"
	SourceDCInside Source = "dcinside"
	SourceTwitter  Source = "twitter"
)

// Sources lists every known channel.
var Sources = []Source{SourceNaver, SourceYoutube, SourceDCInside, SourceTwitter}

// ParseSource maps a raw channel name onto a Source.
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naver", "네이버":
		return SourceNaver, true
	case "youtube", "유튜브":
		return SourceYoutube, true
	case "dcinside", "dc", "디시인사이드":
		return SourceDCInside, true
	case "twitter", "x", "트위터":
		return SourceTwitter, true
	}
	return "", false
}

// LegalArticle is a law name plus clause: the unit demand is measured against.
type LegalArticle struct {
	ID       string `json:"id"`
	LawName  string `json:"lawName"`
	ClauseID string `json:"clauseId"`
	Category string `json:"category"`
	FullName string `json:"fullName"`
}

// Incident is a concrete event tied to one related-law reference.
type Incident struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	MidCategory string `json:"midCategory"`
	// RelatedLaw is a LegalArticle.FullName, resolved through Mappings.
	RelatedLaw   string    `json:"relatedLaw"`
	CommentCount int       `json:"commentCount"`
	NewsCount    int       `json:"newsCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SocialComment is one reaction.
type SocialComment struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Source         Source    `json:"source"`
	Stance         Stance    `json:"stance"`
	IncidentID     string    `json:"incidentId"`
	LegalArticleID string    `json:"legalArticleId"`
	CreatedAt      time.Time `json:"createdAt"`
	Likes          int       `json:"likes"`
}

// NewsArticle is one news item.
type NewsArticle struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	URL            string    `json:"url"`
	Publisher      string    `json:"publisher"`
	PublishedAt    time.Time `json:"publishedAt"`
	IncidentID     string    `json:"incidentId"`
	LegalArticleID string    `json:"legalArticleId"`
}

// Mappings are the global secondary indices. They are never view-scoped.
type Mappings struct {
	IncidentToLegal   map[string]string `json:"incidentToLegal"`
	CommentToIncident map[string]string `json:"commentToIncident"`
	NewsToIncident    map[string]string `json:"newsToIncident"`
}

// Dataset is the processed model: four entity collections plus mappings.
// Values are treated as immutable once built.
type Dataset struct {
	LegalArticles []LegalArticle  `json:"legalArticles"`
	Incidents     []Incident      `json:"incidents"`
	Comments      []SocialComment `json:"socialComments"`
	News          []NewsArticle   `json:"newsArticles"`
	Mappings      Mappings        `json:"mappings"`
}

// Empty reports whether the dataset has no entities at all.
func (d Dataset) Empty() bool {
	return len(d.LegalArticles) == 0 && len(d.Incidents) == 0 && len(d.Comments) == 0 && len(d.News) == 0
}
