package model

// Category identifies one of the normalizable vocabulary fields.
type Category string

const (
	CategoryCompanies  Category = "companies"
	CategoryRoles      Category = "roles"
	CategoryCities     Category = "cities"
	CategoryStates     Category = "states"
	CategoryCountries  Category = "countries"
	CategoryInstitutes Category = "institutes"
	CategoryDegrees    Category = "degrees"
	CategoryDomains    Category = "domains"
)

// Categories lists the vocabulary categories in their canonical order.
// Years are handled separately: they are scanned from the query text, not
// matched against stored vocabulary.
var Categories = []Category{
	CategoryCompanies,
	CategoryRoles,
	CategoryCities,
	CategoryStates,
	CategoryCountries,
	CategoryInstitutes,
	CategoryDegrees,
	CategoryDomains,
}

// ExtractedEntities holds the entity mentions found in a raw query.
// Category slices are deduplicated sets (order not significant). Years keep
// their order of appearance and are NOT deduplicated.
type ExtractedEntities struct {
	Companies  []string `json:"companies"`
	Roles      []string `json:"roles"`
	Cities     []string `json:"cities"`
	States     []string `json:"states"`
	Countries  []string `json:"countries"`
	Institutes []string `json:"institutes"`
	Degrees    []string `json:"degrees"`
	Domains    []string `json:"domains"`
	Years      []int    `json:"years"`
}

// ByCategory returns the extracted values for a vocabulary category.
func (e *ExtractedEntities) ByCategory(c Category) []string {
	switch c {
	case CategoryCompanies:
		return e.Companies
	case CategoryRoles:
		return e.Roles
	case CategoryCities:
		return e.Cities
	case CategoryStates:
		return e.States
	case CategoryCountries:
		return e.Countries
	case CategoryInstitutes:
		return e.Institutes
	case CategoryDegrees:
		return e.Degrees
	case CategoryDomains:
		return e.Domains
	}
	return nil
}

// SetCategory replaces the extracted values for a vocabulary category.
func (e *ExtractedEntities) SetCategory(c Category, values []string) {
	switch c {
	case CategoryCompanies:
		e.Companies = values
	case CategoryRoles:
		e.Roles = values
	case CategoryCities:
		e.Cities = values
	case CategoryStates:
		e.States = values
	case CategoryCountries:
		e.Countries = values
	case CategoryInstitutes:
		e.Institutes = values
	case CategoryDegrees:
		e.Degrees = values
	case CategoryDomains:
		e.Domains = values
	}
}

// IsEmpty reports whether no entities of any kind were extracted.
func (e *ExtractedEntities) IsEmpty() bool {
	for _, c := range Categories {
		if len(e.ByCategory(c)) > 0 {
			return false
		}
	}
	return len(e.Years) == 0
}

// CandidateMap maps an extracted string to its ordered, deduplicated list of
// canonical candidates. An abbreviation hit maps to exactly one candidate;
// otherwise the original string comes first, fuzzy matches after it.
type CandidateMap map[string][]string

// NormalizedEntities holds per-category candidate maps. Categories with no
// extracted values are left nil. Years map each year's string form to itself.
type NormalizedEntities struct {
	Companies  CandidateMap `json:"companies,omitempty"`
	Roles      CandidateMap `json:"roles,omitempty"`
	Cities     CandidateMap `json:"cities,omitempty"`
	States     CandidateMap `json:"states,omitempty"`
	Countries  CandidateMap `json:"countries,omitempty"`
	Institutes CandidateMap `json:"institutes,omitempty"`
	Degrees    CandidateMap `json:"degrees,omitempty"`
	Domains    CandidateMap `json:"domains,omitempty"`
	Years      CandidateMap `json:"years,omitempty"`
}

// ByCategory returns the candidate map for a vocabulary category.
func (n *NormalizedEntities) ByCategory(c Category) CandidateMap {
	switch c {
	case CategoryCompanies:
		return n.Companies
	case CategoryRoles:
		return n.Roles
	case CategoryCities:
		return n.Cities
	case CategoryStates:
		return n.States
	case CategoryCountries:
		return n.Countries
	case CategoryInstitutes:
		return n.Institutes
	case CategoryDegrees:
		return n.Degrees
	case CategoryDomains:
		return n.Domains
	}
	return nil
}

// SetCategory replaces the candidate map for a vocabulary category.
func (n *NormalizedEntities) SetCategory(c Category, m CandidateMap) {
	switch c {
	case CategoryCompanies:
		n.Companies = m
	case CategoryRoles:
		n.Roles = m
	case CategoryCities:
		n.Cities = m
	case CategoryStates:
		n.States = m
	case CategoryCountries:
		n.Countries = m
	case CategoryInstitutes:
		n.Institutes = m
	case CategoryDegrees:
		n.Degrees = m
	case CategoryDomains:
		n.Domains = m
	}
}

// IsEmpty reports whether no category produced any candidates.
func (n *NormalizedEntities) IsEmpty() bool {
	for _, c := range Categories {
		if len(n.ByCategory(c)) > 0 {
			return false
		}
	}
	return len(n.Years) == 0
}
