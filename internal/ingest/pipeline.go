package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
	"github.com/sells-group/member-search/internal/store"
)

// Pipeline parses source rows and bulk-loads them through the store.
type Pipeline struct {
	store store.Store
}

// NewPipeline creates a Pipeline over the given store.
func NewPipeline(st store.Store) *Pipeline {
	return &Pipeline{store: st}
}

// Run ingests every row, accumulating per-row errors in the returned Stats
// rather than aborting. Members upsert; child rows append.
func (p *Pipeline) Run(ctx context.Context, rows []map[string]string) (Stats, error) {
	var stats Stats
	var members []model.Member
	var experiences []model.Experience
	var education []model.Education
	type memberDomains struct {
		memberID string
		domains  []string
	}
	var domains []memberDomains
	type memberContent struct {
		memberID string
		content  string
	}
	var contents []memberContent

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header
		parsed, err := ParseRow(row, rowNum)
		if err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		stats.Errors = append(stats.Errors, parsed.Errors...)

		members = append(members, parsed.Member)
		experiences = append(experiences, parsed.Experiences...)
		education = append(education, parsed.Education...)
		if len(parsed.Domains) > 0 {
			domains = append(domains, memberDomains{parsed.Member.MemberID, parsed.Domains})
		}
		if parsed.Content != "" {
			contents = append(contents, memberContent{parsed.Member.MemberID, parsed.Content})
		}
	}

	n, err := p.store.UpsertMembers(ctx, members)
	if err != nil {
		return stats, eris.Wrap(err, "ingest: upsert members")
	}
	stats.Members = int(n)

	n, err = p.store.InsertExperiences(ctx, experiences)
	if err != nil {
		return stats, eris.Wrap(err, "ingest: insert experiences")
	}
	stats.Experiences = int(n)

	n, err = p.store.InsertEducation(ctx, education)
	if err != nil {
		return stats, eris.Wrap(err, "ingest: insert education")
	}
	stats.Education = int(n)

	for _, md := range domains {
		n, err = p.store.InsertDomains(ctx, md.memberID, md.domains)
		if err != nil {
			return stats, eris.Wrapf(err, "ingest: insert domains for %s", md.memberID)
		}
		stats.Domains += int(n)
	}

	for _, mc := range contents {
		if err := p.store.UpsertContent(ctx, mc.memberID, mc.content); err != nil {
			return stats, eris.Wrapf(err, "ingest: upsert content for %s", mc.memberID)
		}
		stats.Content++
	}

	zap.S().Infow("ingestion complete",
		"members", stats.Members,
		"experiences", stats.Experiences,
		"education", stats.Education,
		"domains", stats.Domains,
		"content", stats.Content,
		"errors", len(stats.Errors),
	)
	return stats, nil
}
