package engine

import (
	"context"
	"slices"

	"github.com/Veraticus/spendlog/internal/model"
)

// ImportResult reports what an import did or, for a dry run, would do.
type ImportResult struct {
	Added      []model.Entry
	Rejected   []Rejection
	Duplicates int
}

// Rejection is a candidate that failed validation.
type Rejection struct {
	Err       error
	Candidate Input
}

type dedupeKey struct {
	date        string
	amount      string
	description string
	currency    model.Currency
}

func keyOf(e model.Entry) dedupeKey {
	return dedupeKey{
		date:        e.Date.String(),
		amount:      e.Amount.StringFixed(model.AmountPlaces),
		description: e.Description,
		currency:    e.Currency,
	}
}

// Import validates candidates and appends those that do not duplicate an
// existing entry or an earlier candidate. Everything is persisted in one
// write. With dryRun nothing is changed.
func (c *Controller) Import(ctx context.Context, candidates []Input, dryRun bool) (ImportResult, error) {
	var res ImportResult

	seen := make(map[dedupeKey]bool, len(c.state.Entries)+len(candidates))
	for _, e := range c.state.Entries {
		seen[keyOf(e)] = true
	}

	for _, in := range candidates {
		e, err := c.build(in)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Err: err, Candidate: in})
			continue
		}
		k := keyOf(e)
		if seen[k] {
			res.Duplicates++
			continue
		}
		seen[k] = true
		e.ID = c.newID()
		res.Added = append(res.Added, e)
	}

	if dryRun || len(res.Added) == 0 {
		return res, nil
	}

	next := append(slices.Clone(c.state.Entries), res.Added...)
	if err := c.commit(ctx, next); err != nil {
		return ImportResult{}, err
	}
	c.logger.Info("Imported expenses",
		"added", len(res.Added),
		"duplicates", res.Duplicates,
		"rejected", len(res.Rejected))
	return res, nil
}
