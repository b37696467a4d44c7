package raw

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cognicore/lawdemand/pkg/lawdemand/internalerr"
)

// Granularity is the period resolution of a time bucket.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// Document is one raw corpus keyed by policy domain. Values stay undecoded
// until the walker reaches them so a malformed branch only costs that branch.
type Document map[string]json.RawMessage

// Parse decodes a raw corpus. Only the top level has to be a JSON object;
// anything malformed below it is skipped during the walk.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrDecode, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Path locates a mid-category inside a document.
type Path struct {
	Domain      string
	Granularity Granularity
	Bucket      string
	MidCategory string
}

// Categories returns the accumulated category path [domain, midCategory].
func (p Path) Categories() []string {
	return []string{p.Domain, p.MidCategory}
}

// MidCategory is the payload of a mid-category node.
type MidCategory struct {
	Count int
	subs  map[string]json.RawMessage
}

// Len returns the number of sub-category entries.
func (m MidCategory) Len() int { return len(m.subs) }

// Subcategories calls fn for every sub-category in name order.
func (m MidCategory) Subcategories(fn func(name string, payload json.RawMessage)) {
	for _, name := range sortedKeys(m.subs) {
		fn(name, m.subs[name])
	}
}

// Visitor receives every mid-category reached by Walk.
type Visitor func(path Path, mid MidCategory)

// Walk traverses domain → granularity → bucket → mid-category and calls visit
// once per mid-category. Keys are visited in sorted order. Missing or
// mistyped nodes at any depth are skipped; Walk never fails.
func Walk(doc Document, granularities []Granularity, visit Visitor) {
	if visit == nil {
		return
	}
	for _, domain := range sortedKeys(doc) {
		periods, ok := object(doc[domain])
		if !ok {
			continue
		}
		for _, gran := range granularities {
			buckets, ok := object(periods[string(gran)])
			if !ok {
				continue
			}
			for _, bucket := range sortedKeys(buckets) {
				mids, ok := object(buckets[bucket])
				if !ok {
					continue
				}
				for _, midName := range sortedKeys(mids) {
					mid, ok := decodeMid(mids[midName])
					if !ok {
						continue
					}
					visit(Path{
						Domain:      domain,
						Granularity: gran,
						Bucket:      bucket,
						MidCategory: midName,
					}, mid)
				}
			}
		}
	}
}

// subcategory keys accepted on a mid-category payload
var subKeys = []string{"subcategories", "소분류목록"}

func decodeMid(data json.RawMessage) (MidCategory, bool) {
	fields, ok := object(data)
	if !ok {
		return MidCategory{}, false
	}
	var mid MidCategory
	if raw, ok := fields["count"]; ok {
		// a bad count is not worth dropping the node for
		mid.Count = parseCount(raw)
	}
	for _, key := range subKeys {
		if subs, ok := object(fields[key]); ok {
			mid.subs = subs
			break
		}
	}
	return mid, true
}

func object(data json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
