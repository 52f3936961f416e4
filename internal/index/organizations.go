package index

import (
	"context"
	"fmt"
	"sort"

	gocache "github.com/patrickmn/go-cache"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	organizationsKey  = "organizations"
	organizationsSize = 10000
)

// OrganizationRef names an organization by its collection
type OrganizationRef struct {
	Collection string `json:"collection"`
	Name       string `json:"name"`
}

// Organizations lists the provinces and municipalities known to the index,
// each sorted by name
type Organizations struct {
	Provinces      []OrganizationRef `json:"provinces"`
	Municipalities []OrganizationRef `json:"municipalities"`
}

// ProvinceNames maps province collections to names
func (o *Organizations) ProvinceNames() map[string]string {
	return refMap(o.Provinces)
}

// MunicipalityNames maps municipality collections to names
func (o *Organizations) MunicipalityNames() map[string]string {
	return refMap(o.Municipalities)
}

// Name returns the name of the organization with the given collection
func (o *Organizations) Name(collection string) (string, bool) {
	for _, list := range [][]OrganizationRef{o.Provinces, o.Municipalities} {
		for _, ref := range list {
			if ref.Collection == collection {
				return ref.Name, true
			}
		}
	}
	return "", false
}

func refMap(refs []OrganizationRef) map[string]string {
	m := make(map[string]string, len(refs))
	for _, ref := range refs {
		m[ref.Collection] = ref.Name
	}
	return m
}

// Organizations returns the provinces and municipalities. The lookup runs
// once and is kept for a day.
func (c *Client) Organizations(ctx context.Context) (*Organizations, error) {
	c.orgMu.Lock()
	defer c.orgMu.Unlock()

	if cached, ok := c.orgs.Get(organizationsKey); ok {
		return cached.(*Organizations), nil
	}

	resp, err := c.Search(ctx, Query{
		Types:           []string{TypeOrganizations},
		Classifications: []string{model.ClassificationMunicipality, model.ClassificationProvince},
		Size:            organizationsSize,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup organizations: %w", err)
	}

	orgs := groupOrganizations(resp.Organizations)
	c.orgs.Set(organizationsKey, orgs, gocache.DefaultExpiration)

	return orgs, nil
}

// groupOrganizations splits organizations by classification and sorts each
// group by Dutch collation
func groupOrganizations(list []model.Organization) *Organizations {
	sorted := make([]model.Organization, len(list))
	copy(sorted, list)

	col := collate.New(language.Dutch, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})

	orgs := &Organizations{
		Provinces:      []OrganizationRef{},
		Municipalities: []OrganizationRef{},
	}
	for _, o := range sorted {
		ref := OrganizationRef{Collection: o.CollectionName(), Name: o.Name}
		if o.Classification == model.ClassificationProvince {
			orgs.Provinces = append(orgs.Provinces, ref)
		} else {
			orgs.Municipalities = append(orgs.Municipalities, ref)
		}
	}

	return orgs
}
