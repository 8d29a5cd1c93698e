// Package assistant parses moderator assistant flags and dispatches
// catalog subcommands.
package assistant

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/vbamtools/campaignstore/internal/campaign"
	entrypoint "github.com/vbamtools/campaignstore/internal/platform/cmd"
	"github.com/vbamtools/campaignstore/internal/storage/sqlite"
)

// Config holds assistant command configuration.
type Config struct {
	DataDir string `env:"CAMPAIGNSTORE_DATA_DIR" envDefault:"campaigns"`
	Readers int    `env:"CAMPAIGNSTORE_READERS" envDefault:"4"`
}

// ParseConfig parses environment and flags into a Config. Remaining
// arguments after the flags are the subcommand and its operands.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, nil, err
	}
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding campaign database files")
	fs.IntVar(&cfg.Readers, "readers", cfg.Readers, "Concurrent read handles per campaign")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Run executes one assistant subcommand.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: assistant [flags] <list|create|delete|turn|advance|import-systems|stats> [args]")
	}

	catalog := campaign.NewCatalog(cfg.DataDir, sqlite.Options{Readers: cfg.Readers})
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAssistant, func(ctx context.Context) error {
		return dispatch(ctx, catalog, args[0], args[1:], out)
	})
}

func dispatch(ctx context.Context, catalog *campaign.Catalog, command string, operands []string, out io.Writer) error {
	switch command {
	case "list":
		return runList(catalog, out)
	case "create":
		return runCreate(ctx, catalog, operands, out)
	case "delete":
		return runDelete(catalog, operands, out)
	case "turn":
		return runTurn(ctx, catalog, operands, out)
	case "advance":
		return runAdvance(ctx, catalog, operands, out)
	case "import-systems":
		return runImportSystems(ctx, catalog, operands, out)
	case "stats":
		return runStats(ctx, catalog, operands, out)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runList(catalog *campaign.Catalog, out io.Writer) error {
	infos, err := catalog.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintln(out, info.Name)
	}
	return nil
}

func runCreate(ctx context.Context, catalog *campaign.Catalog, operands []string, out io.Writer) error {
	name, err := campaignName(operands, "create")
	if err != nil {
		return err
	}
	c, err := catalog.Create(ctx, name)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	instanceID, err := c.InstanceID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s (%s)\n", c.Name, instanceID)
	return nil
}

func runDelete(catalog *campaign.Catalog, operands []string, out io.Writer) error {
	name, err := campaignName(operands, "delete")
	if err != nil {
		return err
	}
	if err := catalog.Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", name)
	return nil
}

func runTurn(ctx context.Context, catalog *campaign.Catalog, operands []string, out io.Writer) error {
	return withCampaign(ctx, catalog, operands, "turn", func(c *campaign.Campaign) error {
		turn, err := c.CurrentTurn(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "turn %d\n", turn)
		return nil
	})
}

func runAdvance(ctx context.Context, catalog *campaign.Catalog, operands []string, out io.Writer) error {
	return withCampaign(ctx, catalog, operands, "advance", func(c *campaign.Campaign) error {
		turn, err := c.AdvanceTurn(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "advanced to turn %d\n", turn)
		return nil
	})
}

func runImportSystems(ctx context.Context, catalog *campaign.Catalog, operands []string, out io.Writer) error {
	if len(operands) != 2 {
		return fmt.Errorf("usage: assistant import-systems <campaign> <csv-file>")
	}
	file, err := os.Open(operands[1])
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	return withCampaign(ctx, catalog, operands[:1], "import-systems", func(c *campaign.Campaign) error {
		count, err := c.ImportSystems(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d systems\n", count)
		return nil
	})
}

func runStats(ctx context.Context, catalog *campaign.Catalog, operands []string, out io.Writer) error {
	return withCampaign(ctx, catalog, operands, "stats", func(c *campaign.Campaign) error {
		stats, err := c.Statistics(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "sessions\t%d\n", stats.SessionCount)
		fmt.Fprintf(w, "empires\t%d\n", stats.EmpireCount)
		fmt.Fprintf(w, "systems\t%d\n", stats.SystemCount)
		fmt.Fprintf(w, "fleets\t%d\n", stats.FleetCount)
		return w.Flush()
	})
}

func withCampaign(ctx context.Context, catalog *campaign.Catalog, operands []string, command string, fn func(*campaign.Campaign) error) error {
	name, err := campaignName(operands, command)
	if err != nil {
		return err
	}
	c, err := catalog.Open(ctx, name)
	if err != nil {
		return err
	}
	defer c.Close(ctx)
	return fn(c)
}

func campaignName(operands []string, command string) (string, error) {
	if len(operands) != 1 {
		return "", fmt.Errorf("usage: assistant %s <campaign>", command)
	}
	return operands[0], nil
}
