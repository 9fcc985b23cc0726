package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/config"
	"github.com/Veraticus/spendlog/internal/engine"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// initStorage opens the configured backend behind the storage adapter. The
// returned function closes the backend.
func initStorage(ctx context.Context) (*storage.Adapter, func(), error) {
	var kv storage.KeyValue

	backend := viper.GetString("storage.backend")
	switch backend {
	case "", "sqlite":
		dbPath := config.DatabasePath()
		db, err := storage.NewSQLiteKV(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		kv = db
	case "memory":
		kv = storage.NewMemoryKV()
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, backend)
	}

	closeFn := func() {
		if err := kv.Close(); err != nil {
			common.LogError(err, "Failed to close storage", common.Fields{"backend": backend})
		}
	}
	return storage.NewAdapter(kv), closeFn, nil
}

// initEngine opens storage and loads the controller.
func initEngine(ctx context.Context) (*engine.Controller, func(), error) {
	store, closeFn, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	tag, err := language.Parse(viper.GetString("display.locale"))
	if err != nil {
		slog.Warn("Invalid display locale, using English", "locale", viper.GetString("display.locale"), "error", err)
		tag = language.English
	}

	return engine.New(ctx, store, engine.WithLocale(tag)), closeFn, nil
}

// addFilterFlags registers the filter and sort flags shared by list, summary
// and export.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("from", "", "only expenses on or after this date (YYYY-MM-DD)")
	f.String("to", "", "only expenses on or before this date (YYYY-MM-DD)")
	f.String("category", "", "only expenses in this category")
	f.String("search", "", "case-insensitive description search")
	f.String("quick", "", "preset date range: this-month, last-month, this-year")
	f.String("sort", string(pipeline.SortByDate), "sort by: date, category, amount")
	f.Bool("desc", false, "sort descending")
}

// applyFilterFlags parses the shared flags into the controller's criteria
// and sort state.
func applyFilterFlags(cmd *cobra.Command, ctrl *engine.Controller) error {
	f := cmd.Flags()
	var c pipeline.Criteria

	for _, bound := range []struct {
		name string
		dst  **model.Date
	}{{"from", &c.From}, {"to", &c.To}} {
		raw, _ := f.GetString(bound.name)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d, err := model.ParseDate(strings.TrimSpace(raw))
		if err != nil {
			return common.NewUserError("invalid --"+bound.name+" date", err)
		}
		*bound.dst = &d
	}

	if raw, _ := f.GetString("category"); raw != "" {
		cat, err := model.ParseCategory(raw)
		if err != nil {
			return common.NewUserError("invalid --category", err)
		}
		c.Category = cat
	}

	c.Search, _ = f.GetString("search")
	ctrl.SetCriteria(c)

	if raw, _ := f.GetString("quick"); raw != "" {
		r, ok := pipeline.ParseQuickRange(raw)
		if !ok {
			return common.NewUserError(fmt.Sprintf("invalid --quick %q (use this-month, last-month, this-year)", raw), nil)
		}
		ctrl.ApplyQuickRange(r)
	}

	if !f.Changed("sort") && !f.Changed("desc") {
		ctrl.SetSort(pipeline.DefaultSort)
		return nil
	}

	raw, _ := f.GetString("sort")
	field, err := pipeline.ParseSortField(raw)
	if err != nil {
		return common.NewUserError("invalid --sort", err)
	}
	state := pipeline.SortState{Field: field, Direction: pipeline.Ascending}
	if desc, _ := f.GetBool("desc"); desc {
		state.Direction = pipeline.Descending
	}
	ctrl.SetSort(state)
	return nil
}

// inputFromFlags reads the entry fields that were set on the command line.
func inputFromFlags(cmd *cobra.Command) engine.Input {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return engine.Input{
		Date:        get("date"),
		Category:    get("category"),
		Description: get("description"),
		Amount:      get("amount"),
		Currency:    get("currency"),
	}
}

func addEntryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("date", "", "date of the expense (YYYY-MM-DD)")
	f.String("category", "", "category, see spend categories")
	f.String("description", "", "what the money was spent on")
	f.String("amount", "", "amount, e.g. 12.50")
	f.String("currency", "", "currency code (default: display currency)")
}

// entryError turns validation failures into user errors.
func entryError(err error) error {
	if model.IsValidation(err) {
		return common.NewUserError("invalid expense", err)
	}
	return err
}
