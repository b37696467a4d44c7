// Package identity interns legal articles and incidents into canonical ids.
//
// Every extractor resolves names through one Registry, so an incident seen in
// the news corpus and the same incident seen in the social corpus share an id,
// and a comment's foreign keys always equal the ids on the entities.
package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// namespace for name-based ids; changing it changes every id.
var namespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9a43-2f5d1e7c9b10")

var clausePattern = regexp.MustCompile(`^(.*?)\s*(제\s*\d+\s*조(?:\s*의\s*\d+)?(?:\s*제\s*\d+\s*항)?(?:\s*제\s*\d+\s*호)?)\s*$`)

var spaces = regexp.MustCompile(`\s+`)

// Law is a parsed related-law string.
type Law struct {
	Name   string
	Clause string
}

// FullName is Name and Clause joined by a single space.
func (l Law) FullName() string {
	return strings.TrimSpace(l.Name + " " + l.Clause)
}

// ParseLaw splits a raw related-law string such as "개인정보보호법 제2조"
// into law name and clause. Strings without a recognizable clause keep the
// whole text as the name.
func ParseLaw(s string) Law {
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if s == "" {
		return Law{}
	}
	if m := clausePattern.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		return Law{
			Name:   strings.TrimSpace(m[1]),
			Clause: spaces.ReplaceAllString(m[2], ""),
		}
	}
	return Law{Name: s}
}

// Registry assigns stable ids. It is not safe for concurrent use.
type Registry struct {
	laws      map[string]string
	incidents map[incidentKey]string
}

type incidentKey struct {
	category string
	name     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		laws:      make(map[string]string),
		incidents: make(map[incidentKey]string),
	}
}

// Law returns the id for a legal article and whether it was seen before.
// An empty law yields an empty id.
func (r *Registry) Law(l Law) (string, bool) {
	full := l.FullName()
	if full == "" {
		return "", false
	}
	if id, ok := r.laws[full]; ok {
		return id, true
	}
	id := "law-" + derive("law", full)
	r.laws[full] = id
	return id, false
}

// Incident returns the id for an incident within a category and whether it
// was seen before.
func (r *Registry) Incident(category, name string) (string, bool) {
	key := incidentKey{category: strings.TrimSpace(category), name: strings.TrimSpace(name)}
	if key.name == "" {
		return "", false
	}
	if id, ok := r.incidents[key]; ok {
		return id, true
	}
	id := "inc-" + derive("incident", key.category, key.name)
	r.incidents[key] = id
	return id, false
}

// Laws returns the number of interned legal articles.
func (r *Registry) Laws() int { return len(r.laws) }

// Incidents returns the number of interned incidents.
func (r *Registry) Incidents() int { return len(r.incidents) }

func derive(kind string, parts ...string) string {
	name := kind + "\x00" + strings.Join(parts, "\x00")
	return uuid.NewSHA1(namespace, []byte(name)).String()
}
