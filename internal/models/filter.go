package models

import (
	"fmt"
	"time"
)

const filterDateLayout = "2006-01-02"

// RetrievalFilter is a structured predicate over document metadata used to
// narrow a similarity search: a source allow-list plus an optional creation
// date range. The nil filter (or a filter with no sources and no bounds)
// means unrestricted search.
type RetrievalFilter struct {
	Sources   []string `json:"sources,omitempty"`
	StartDate string   `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive lower bound
	EndDate   string   `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive upper bound
}

// NewRetrievalFilter builds a validated filter. A restricted filter must name
// at least one source; date bounds, when present, must be YYYY-MM-DD.
func NewRetrievalFilter(sources []string, startDate, endDate string) (*RetrievalFilter, error) {
	if len(sources) == 0 && startDate == "" && endDate == "" {
		return &RetrievalFilter{}, nil
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("retrieval filter requires at least one source")
	}
	for _, bound := range []string{startDate, endDate} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(filterDateLayout, bound); err != nil {
			return nil, fmt.Errorf("invalid filter date %q: %w", bound, err)
		}
	}
	return &RetrievalFilter{
		Sources:   sources,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// IsUnrestricted reports whether the filter matches everything
func (f *RetrievalFilter) IsUnrestricted() bool {
	return f == nil || (len(f.Sources) == 0 && f.StartDate == "" && f.EndDate == "")
}

// ESQuery renders the filter as an Elasticsearch bool query (match_all when
// unrestricted). The date range clause is omitted entirely when neither bound
// is set, and open-ended when only one is.
func (f *RetrievalFilter) ESQuery() map[string]interface{} {
	if f.IsUnrestricted() {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"terms": map[string]interface{}{
					"metadata.source": f.Sources,
				},
			},
		},
	}

	if f.StartDate != "" || f.EndDate != "" {
		rangeFilter := map[string]interface{}{}
		if f.StartDate != "" {
			rangeFilter["gte"] = f.StartDate
		}
		if f.EndDate != "" {
			rangeFilter["lte"] = f.EndDate
		}
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"range": map[string]interface{}{
					"metadata.creation_date": rangeFilter,
				},
			},
		}
	}

	return map[string]interface{}{"bool": boolQuery}
}
