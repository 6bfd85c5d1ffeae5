// Package ingest loads member data from CSV or XLSX exports into the store.
// Experience, education, and domain columns carry JSON embedded in the cell.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/member-search/internal/model"
)

// Stats tallies what one ingestion run wrote, plus per-row parse errors.
type Stats struct {
	Members     int
	Experiences int
	Education   int
	Domains     int
	Content     int
	Errors      []string
}

// rawExperience mirrors the JSON shape of one entry in the experience column.
type rawExperience struct {
	Company     string        `json:"company"`
	Role        string        `json:"role"`
	FromDate    *string       `json:"from_date"`
	ToDate      *string       `json:"to_date"`
	IsCurrent   bool          `json:"is_current"`
	Description string        `json:"description"`
	Enrichment  rawEnrichment `json:"enrichment"`
}

type rawEnrichment struct {
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Website     string `json:"website"`
	LinkedInURL string `json:"linkedin_url"`
	Location    string `json:"location"`
}

type rawEducation struct {
	Institute string  `json:"institute"`
	Degree    string  `json:"degree"`
	Course    string  `json:"course"`
	FromDate  *string `json:"from_date"`
	ToDate    *string `json:"to_date"`
}

// ParsedRow is one source row decoded into store-ready records.
type ParsedRow struct {
	Member      model.Member
	Experiences []model.Experience
	Education   []model.Education
	Domains     []string
	Content     string
	// Errors are non-fatal parse problems on this row; the member and any
	// well-formed child entries still load.
	Errors []string
}

// ParseLocation splits a "City, State, Country" enrichment string. Two parts
// mean city and country; one part is just a city.
func ParseLocation(location string) (city, state, country *string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil, nil
	}
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		return &parts[0], nil, nil
	case 2:
		return &parts[0], nil, &parts[1]
	case 3:
		return &parts[0], &parts[1], &parts[2]
	default:
		return nil, nil, nil
	}
}

// ParseRow decodes one header-keyed source row. The uri column doubles as the
// member identifier; rows without it are rejected. Child entries missing
// their required field (company, institute) are skipped silently, matching
// the tolerance of the exports this ingests.
func ParseRow(row map[string]string, rowNum int) (*ParsedRow, error) {
	memberID := strings.TrimSpace(row["uri"])
	if memberID == "" {
		return nil, fmt.Errorf("row %d: missing member_id/uri", rowNum)
	}

	parsed := &ParsedRow{
		Member: model.Member{
			MemberID:  memberID,
			URI:       memberID,
			FirstName: strings.TrimSpace(row["first_name"]),
			LastName:  strings.TrimSpace(row["last_name"]),
			Bio:       strings.TrimSpace(row["bio"]),
			Title:     strings.TrimSpace(row["title"]),
		},
		Content: strings.TrimSpace(row["content"]),
	}

	if expStr := strings.TrimSpace(row["experience"]); expStr != "" {
		var raws []rawExperience
		if err := json.Unmarshal([]byte(expStr), &raws); err != nil {
			parsed.addError(rowNum, "invalid experience JSON", err)
		} else {
			for _, raw := range raws {
				company := strings.TrimSpace(raw.Company)
				if company == "" {
					continue
				}
				city, state, country := ParseLocation(raw.Enrichment.Location)
				parsed.Experiences = append(parsed.Experiences, model.Experience{
					MemberID:        memberID,
					Company:         company,
					Role:            strings.TrimSpace(raw.Role),
					Industry:        strings.TrimSpace(raw.Enrichment.Industry),
					City:            city,
					State:           state,
					Country:         country,
					FromDate:        raw.FromDate,
					ToDate:          raw.ToDate,
					IsCurrent:       raw.IsCurrent,
					Description:     strings.TrimSpace(raw.Description),
					CompanySize:     strings.TrimSpace(raw.Enrichment.Size),
					CompanyWebsite:  strings.TrimSpace(raw.Enrichment.Website),
					CompanyLinkedIn: strings.TrimSpace(raw.Enrichment.LinkedInURL),
				})
			}
		}
	}

	if eduStr := strings.TrimSpace(row["education"]); eduStr != "" {
		var raws []rawEducation
		if err := json.Unmarshal([]byte(eduStr), &raws); err != nil {
			parsed.addError(rowNum, "invalid education JSON", err)
		} else {
			for _, raw := range raws {
				institute := strings.TrimSpace(raw.Institute)
				if institute == "" {
					continue
				}
				parsed.Education = append(parsed.Education, model.Education{
					MemberID:  memberID,
					Degree:    strings.TrimSpace(raw.Degree),
					Institute: institute,
					Course:    strings.TrimSpace(raw.Course),
					FromDate:  raw.FromDate,
					ToDate:    raw.ToDate,
				})
			}
		}
	}

	// Domains arrive as a JSON array or a plain comma-separated list.
	if domStr := strings.TrimSpace(row["domains_of_exploration"]); domStr != "" {
		var names []string
		if strings.HasPrefix(domStr, "[") {
			if err := json.Unmarshal([]byte(domStr), &names); err != nil {
				parsed.addError(rowNum, "invalid domains JSON", err)
				names = nil
			}
		} else {
			names = strings.Split(domStr, ",")
		}
		for _, d := range names {
			if d = strings.TrimSpace(d); d != "" {
				parsed.Domains = append(parsed.Domains, d)
			}
		}
	}

	return parsed, nil
}

func (p *ParsedRow) addError(rowNum int, msg string, err error) {
	p.Errors = append(p.Errors, fmt.Sprintf("row %d: %s: %v", rowNum, msg, err))
}
