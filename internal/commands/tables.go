package commands

import (
	"context"
	"fmt"

	"github.com/yefei/zenorm-generate/internal/codegen"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/filter"
	"github.com/yefei/zenorm-generate/internal/source"
)

// TablesCommand lists what a generate run would pick up without writing
// anything
type TablesCommand struct {
	loader  ConfigLoader
	sources SourceOpener
	output  Output
}

func NewTablesCommand() *TablesCommand {
	return &TablesCommand{
		loader:  &defaultConfigLoader{},
		sources: source.DefaultRegistry(),
		output:  &defaultOutput{},
	}
}

func (tc *TablesCommand) Execute(ctx context.Context, configPath string) error {
	cfg, configFile, err := tc.loader.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = config.ApplyDefaults(resolveFile(cfg, configFile))

	f, err := filter.Compile(cfg.Filter, cfg.Include)
	if err != nil {
		return codegen.NewConfigError("", nil, "", err)
	}

	src, err := tc.sources.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Backend, err)
	}
	defer src.Close()

	kept, total := 0, 0
	for t, err := range src.Tables(ctx) {
		if err != nil {
			return &codegen.StreamError{Cause: err}
		}
		total++

		d := f.Match(t.Name)
		if d.Excluded {
			tc.output.Printf("  ✗ %s (%s)\n", t.Name, d.Reason)
			continue
		}
		kept++
		pk, pkType := t.PrimaryKey()
		tc.output.Printf("  ✓ %s (%d columns, pk %s: %s)\n", t.Name, len(t.Columns), pk, pkType)
	}

	tc.output.Printf("%d of %d tables would be generated\n", kept, total)
	return nil
}
