package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// LoadHistory returns every stored run, newest first.
// Records that vanish between List and Load (expired) are skipped.
func LoadHistory(ctx context.Context, store ports.RunStore) ([]*domain.RunRecord, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	records := make([]*domain.RunRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load run %s: %w", id, err)
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

// PrintHistory writes records as a table, or as a JSON array.
func PrintHistory(w io.Writer, records []*domain.RunRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		printSystemMessage(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tREASON\tTICKS\tSTATE\tNON-BLANK\tSEED")
	for _, rec := range records {
		seed := "-"
		if rec.Randomized {
			seed = fmt.Sprint(rec.Seed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			rec.ID, rec.StartedAt.Format(time.DateTime), rec.Reason,
			rec.Ticks, rec.FinalState, rec.NonBlank, seed)
	}
	return tw.Flush()
}
