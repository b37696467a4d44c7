package model

// BuildMappings derives the three lookup tables from the entity collections.
// Incidents resolve to legal articles by exact FullName match on RelatedLaw.
func BuildMappings(ds Dataset) Mappings {
	byName := make(map[string]string, len(ds.LegalArticles))
	for _, la := range ds.LegalArticles {
		byName[la.FullName] = la.ID
	}

	m := Mappings{
		IncidentToLegal:   make(map[string]string, len(ds.Incidents)),
		CommentToIncident: make(map[string]string, len(ds.Comments)),
		NewsToIncident:    make(map[string]string, len(ds.News)),
	}
	for _, inc := range ds.Incidents {
		if id, ok := byName[inc.RelatedLaw]; ok {
			m.IncidentToLegal[inc.ID] = id
		}
	}
	for _, c := range ds.Comments {
		if c.IncidentID != "" {
			m.CommentToIncident[c.ID] = c.IncidentID
		}
	}
	for _, n := range ds.News {
		if n.IncidentID != "" {
			m.NewsToIncident[n.ID] = n.IncidentID
		}
	}
	return m
}

// Index is a read-through lookup over a Dataset.
type Index struct {
	ds        Dataset
	legal     map[string]int
	incidents map[string]int
}

// NewIndex builds an index over ds. ds is not copied.
func NewIndex(ds Dataset) *Index {
	idx := &Index{
		ds:        ds,
		legal:     make(map[string]int, len(ds.LegalArticles)),
		incidents: make(map[string]int, len(ds.Incidents)),
	}
	for i, la := range ds.LegalArticles {
		idx.legal[la.ID] = i
	}
	for i, inc := range ds.Incidents {
		idx.incidents[inc.ID] = i
	}
	return idx
}

// LegalArticle returns the article with the given id.
func (x *Index) LegalArticle(id string) (LegalArticle, bool) {
	i, ok := x.legal[id]
	if !ok {
		return LegalArticle{}, false
	}
	return x.ds.LegalArticles[i], true
}

// Incident returns the incident with the given id.
func (x *Index) Incident(id string) (Incident, bool) {
	i, ok := x.incidents[id]
	if !ok {
		return Incident{}, false
	}
	return x.ds.Incidents[i], true
}

// LegalForIncident resolves an incident to its legal article through the
// mapping table.
func (x *Index) LegalForIncident(incidentID string) (LegalArticle, bool) {
	id, ok := x.ds.Mappings.IncidentToLegal[incidentID]
	if !ok {
		return LegalArticle{}, false
	}
	// the mapping table is global; the article may be filtered out
	if la, ok := x.LegalArticle(id); ok {
		return la, true
	}
	return LegalArticle{}, false
}

// CommentCategory is the category of the comment's legal article, or "".
func (x *Index) CommentCategory(c SocialComment) string {
	if la, ok := x.LegalArticle(c.LegalArticleID); ok {
		return la.Category
	}
	return ""
}

// CommentResolved reports whether both foreign keys of c resolve.
func (x *Index) CommentResolved(c SocialComment) bool {
	_, inc := x.incidents[c.IncidentID]
	_, law := x.legal[c.LegalArticleID]
	return inc && law
}

// NewsResolved reports whether both foreign keys of n resolve.
func (x *Index) NewsResolved(n NewsArticle) bool {
	_, inc := x.incidents[n.IncidentID]
	_, law := x.legal[n.LegalArticleID]
	return inc && law
}
