package model

// ResultRecord is a document reference whose highlight was found verbatim in
// its own source text
type ResultRecord struct {
	ID               string   `json:"id"`
	OrganizationName string   `json:"organization_name,omitempty"`
	Title            string   `json:"title"`
	SourceURL        string   `json:"source_url"`
	Highlights       []string `json:"highlights"`
	StartDate        string   `json:"start_date,omitempty"`
}

// Source is a document attached to an event in the search index
type Source struct {
	Description string `json:"description"`
	Note        string `json:"note,omitempty"`
	URL         string `json:"url"`
}

// Event is a single hit from the search index (meeting, agenda item, motion, ...)
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Classification string    `json:"classification,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	Sources        []Source  `json:"sources"`
	Meta           EventMeta `json:"meta"`
}

// EventMeta holds index metadata of an event
type EventMeta struct {
	// Highlight is keyed by field path, e.g. "sources.description"
	Highlight  map[string][]string `json:"highlight,omitempty"`
	Collection string              `json:"collection,omitempty"`
}

// Organization is a governmental body known to the index
type Organization struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	Collection     string `json:"collection,omitempty"`
	Meta           struct {
		Collection string `json:"collection,omitempty"`
	} `json:"meta"`
}

// CollectionName returns the collection of the organization, preferring the
// top level field over the index metadata
func (o Organization) CollectionName() string {
	if o.Collection != "" {
		return o.Collection
	}
	return o.Meta.Collection
}

// SearchMeta is the summary block of a search response
type SearchMeta struct {
	Total int `json:"total"`
	Took  int `json:"took"`
}

// SearchResponse is the decoded body of a search request
type SearchResponse struct {
	Meta          *SearchMeta    `json:"meta"`
	Organizations []Organization `json:"organizations,omitempty"`
	Events        []Event        `json:"events,omitempty"`
}

// Total returns the reported hit count, or zero when the meta block is missing
func (r *SearchResponse) Total() int {
	if r == nil || r.Meta == nil {
		return 0
	}
	return r.Meta.Total
}

// Classification values used for organization lookup
const (
	ClassificationMunicipality = "Municipality"
	ClassificationProvince     = "Province"
)
