package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/trade"
)

// DefaultSets are the expansions imported when none are named.
var DefaultSets = []string{"genetic_apex", "mythical_island"}

// ImportReport summarises one import run.
type ImportReport struct {
	Sets    int      `json:"sets"`
	Cards   int      `json:"cards"`
	Skipped int      `json:"skipped"`
	Missing []string `json:"missing_sets,omitempty"`
}

// Importer loads reference data from a checkout of the card catalog, where each
// set is a directory of one TypeScript file per card.
type Importer struct {
	store trade.Store
}

// NewImporter creates an importer writing into store.
func NewImporter(store trade.Store) *Importer {
	return &Importer{store: store}
}

// Import upserts each set and then every card found under <repoPath>/<set>.
// Re-running an import is safe since sets and cards are keyed naturally.
func (i *Importer) Import(ctx context.Context, repoPath string, sets []string) (*ImportReport, error) {
	if len(sets) == 0 {
		sets = DefaultSets
	}
	report := &ImportReport{}

	for _, set := range sets {
		code := strings.ToLower(set)
		dir := filepath.Join(repoPath, code)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			log.Warn("Card set not found in catalog", "set", code, "path", dir)
			report.Missing = append(report.Missing, code)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to read set %s: %w", code, err)
		}

		log.Info("Importing card set", "set", code)
		if err := i.store.UpsertCardSet(ctx, trade.CardSet{Code: code, Name: SetName(code)}); err != nil {
			return report, fmt.Errorf("failed to store set %s: %w", code, err)
		}
		report.Sets++

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".ts") || e.Name() == "index.ts" {
				continue
			}
			content, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				log.Warn("Skipping unreadable card file", "file", e.Name(), "error", err)
				report.Skipped++
				continue
			}
			entry, ok := ParseCardFile(content)
			if !ok {
				log.Debug("Skipping card file without a tradable rarity", "file", e.Name())
				report.Skipped++
				continue
			}

			def := trade.CardDefinition{
				SetCode:    code,
				CardName:   entry.Name,
				Rarity:     entry.Rarity,
				RarityIcon: entry.Rarity.Symbol(),
			}
			if err := i.store.UpsertCardDefinition(ctx, def); err != nil {
				return report, fmt.Errorf("failed to store card %s: %w", entry.Name, err)
			}
			report.Cards++
		}
	}

	log.Info("Card import finished", "sets", report.Sets, "cards", report.Cards, "skipped", report.Skipped)
	return report, nil
}

// SetName turns a set code such as "genetic_apex" into "Genetic Apex".
func SetName(code string) string {
	words := strings.FieldsFunc(code, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
