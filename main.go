package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
	"go.uber.org/zap"
)

type Params struct {
	Files      []string `descr:"Subscription files, optionally prefixed with format (e.g. csv:subs.csv)" positional:"true"`
	Source     string   `descr:"Data source type for files without a format prefix" alts:"simple-json,csv,xlsx" strict:"true" default:"simple-json"`
	Config     string   `descr:"Path to config file (default ~/.subscription-tracker/config.yaml)" optional:"true"`
	InitConfig bool     `descr:"Write a config template with the loaded subscription names and exit" optional:"true"`
	Output     string   `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Show       string   `descr:"Report section to show" alts:"all,subscriptions,renewals,savings,stats" strict:"true" default:"all"`
	Category   string   `descr:"Only include subscriptions in this category" optional:"true"`
	Cycle      string   `descr:"Only include subscriptions on this billing cycle (monthly or yearly)" optional:"true"`
	Tags       []string `descr:"Only include subscriptions with any of these tags" optional:"true"`
	Sort       string   `descr:"Sort subscriptions by field" alts:"name,cost,renewal" strict:"true" default:"name"`
	SortDir    string   `descr:"Sort direction" alts:"asc,desc" strict:"true" default:"asc"`
	Currency   string   `descr:"Currency code for formatting (default: config, then system locale, then USD)" optional:"true"`
	Today      string   `descr:"Reference date (YYYY-MM-DD) used as today for all calculations" optional:"true"`
	Strict     bool     `descr:"Fail on invalid records instead of skipping them" optional:"true"`
	Verbose    bool     `descr:"Enable debug logging" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("subscription-tracker").
		WithShort("Track subscriptions, upcoming renewals and billing-cycle savings").
		WithLong("Loads subscriptions from JSON, CSV or Excel files, projects the next renewal of each one, " +
			"groups renewals by urgency and recommends monthly/yearly switches that lower the total cost.").
		WithRunFunc(func(params *Params) {
			log := internal.NewLogger(params.Verbose)
			defer log.Sync()

			if err := run(params, log); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, log *zap.SugaredLogger) error {
	// Captured once so every calculation in this run sees the same date
	referenceDate, err := resolveReferenceDate(params.Today)
	if err != nil {
		return err
	}

	configPath := params.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}
	cfg, err := loadConfig(configPath, params.Config != "", params.InitConfig)
	if err != nil {
		return err
	}

	subs, err := internal.LoadAll(params.Files, internal.LoadOptions{
		DefaultSource: params.Source,
		Strict:        params.Strict,
		Logger:        log,
	})
	if err != nil {
		return err
	}
	log.Debugw("loaded subscriptions", "count", len(subs), "reference_date", referenceDate.Format(internal.DateLayout))

	if params.InitConfig {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}
		if err := internal.GenerateConfigTemplate(subs).Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote config template to %s\n", configPath)
		return nil
	}

	subs, err = cfg.Apply(subs, referenceDate)
	if err != nil {
		return err
	}

	filter := internal.FilterOptions{Category: params.Category, Tags: params.Tags}
	if params.Cycle != "" {
		if filter.Cycle, err = internal.ParseBillingCycle(params.Cycle); err != nil {
			return err
		}
	}
	subs = internal.Filter(subs, filter)

	report := internal.BuildReport(subs, referenceDate)
	opts := internal.OutputOptions{
		Show:      params.Show,
		SortField: params.Sort,
		SortDir:   params.SortDir,
		Currency:  internal.GetCurrency(resolveCurrency(params.Currency, cfg, log)),
	}

	if params.Output == "json" {
		return internal.PrintJSON(os.Stdout, report, opts)
	}
	if len(subs) == 0 {
		fmt.Println("No subscriptions found.")
		return nil
	}
	internal.PrintTables(os.Stdout, report, opts)
	return nil
}

func resolveReferenceDate(today string) (time.Time, error) {
	if today == "" {
		return internal.DateOf(time.Now()), nil
	}
	t, err := time.Parse(internal.DateLayout, today)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today date %q: %w", today, err)
	}
	return t, nil
}

// loadConfig reads the config file. A missing default config is not an error.
func loadConfig(path string, explicit bool, initConfig bool) (*internal.Config, error) {
	if path == "" || initConfig {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return nil, nil
	}
	return internal.LoadConfig(path)
}

// resolveCurrency picks the currency: flag, config, system locale, then USD
func resolveCurrency(flag string, cfg *internal.Config, log *zap.SugaredLogger) string {
	if flag != "" {
		return strings.ToUpper(flag)
	}
	if cfg != nil && cfg.Currency != "" {
		return strings.ToUpper(cfg.Currency)
	}
	if detected := internal.DetectSystemCurrency(); detected != "" {
		log.Debugw("detected system currency", "currency", detected)
		return detected
	}
	return "USD"
}
