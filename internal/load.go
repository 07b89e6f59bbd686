package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// LoadOptions controls how source files are read
type LoadOptions struct {
	DefaultSource string // used for files without a format prefix
	Strict        bool   // fail on the first invalid record instead of skipping it
	Logger        *zap.SugaredLogger
}

// LoadAll reads and validates subscriptions from all files.
// Each file may carry a "format:" prefix; see ParseFileArg.
func LoadAll(files []string, opts LoadOptions) ([]Subscription, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var subs []Subscription
	for _, arg := range files {
		format, path := ParseFileArg(arg)
		if format == "" {
			format = opts.DefaultSource
		}

		parser, err := GetParser(format)
		if err != nil {
			return nil, err
		}

		records, err := parser.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		log.Debugw("parsed source file", "file", path, "format", format, "records", len(records))

		for i, rec := range records {
			sub, err := rec.ToSubscription()
			if err != nil {
				if opts.Strict {
					return nil, fmt.Errorf("%s record %d: %w", path, i+1, err)
				}
				log.Warnw("skipping invalid record", "file", path, "record", i+1, "error", err)
				continue
			}
			subs = append(subs, sub)
		}
	}

	return subs, nil
}
