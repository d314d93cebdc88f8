// Package cli implements pricecalc, the offline companion of the pricing
// service: it prices a configuration from local catalog exports and checks
// product schema files.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/logger"
	"shutter-pricing-service/internal/rules"
	"shutter-pricing-service/internal/schema"
	"shutter-pricing-service/internal/service"
	"shutter-pricing-service/internal/store"
)

// Run executes the pricecalc command line. Results are written to out.
func Run(ctx context.Context, args []string, version string, out io.Writer) error {
	var logLevel string
	log := logger.NewNop()

	app := &cli.Command{
		Name:    "pricecalc",
		Usage:   "Price shutter and insect screen configurations offline",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "debug, info, warn or error",
				Value:       "warn",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			l, err := logger.New("development", logLevel)
			if err != nil {
				return ctx, goerr.Wrap(err, "failed to initialise logger")
			}
			log = l
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			log.Sync()
			return nil
		},
		Commands: []*cli.Command{
			cmdCalculate(out, func() *logger.Logger { return log }),
			cmdValidateSchema(out, func() *logger.Logger { return log }),
		},
	}

	return app.Run(ctx, args)
}

// calculation is the JSON document calculate prints.
type calculation struct {
	ProductID string                   `json:"productId"`
	State     domain.State             `json:"state"`
	Warnings  []rules.Warning          `json:"warnings"`
	Result    domain.CalculationResult `json:"result"`
}

func cmdCalculate(out io.Writer, log func() *logger.Logger) *cli.Command {
	var productID, optionID, stateJSON, stateFile, pricesFile, accessoriesFile, schemaDir string
	var settle bool

	return &cli.Command{
		Name:    "calculate",
		Aliases: []string{"calc"},
		Usage:   "Settle and price one configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "product", Usage: "product id (panjur, sineklik)", Required: true, Destination: &productID},
			&cli.StringFlag{Name: "option", Usage: "shutter option (distan, monoblok)", Destination: &optionID},
			&cli.IntFlag{Name: "type", Usage: "section count", Value: 1},
			&cli.StringFlag{Name: "state", Usage: "field values as a JSON object", Destination: &stateJSON},
			&cli.StringFlag{Name: "state-file", Usage: "path of a JSON file with field values", Destination: &stateFile},
			&cli.StringFlag{
				Name:        "prices",
				Value:       "configs/catalog/product-prices.json",
				Sources:     cli.EnvVars("CATALOG_PRICES_FILE"),
				Destination: &pricesFile,
			},
			&cli.StringFlag{
				Name:        "accessories",
				Value:       "configs/catalog/accessories.json",
				Sources:     cli.EnvVars("CATALOG_ACCESSORIES_FILE"),
				Destination: &accessoriesFile,
			},
			&cli.StringFlag{
				Name:        "schema-dir",
				Value:       "configs/schemas",
				Sources:     cli.EnvVars("SCHEMA_DIR"),
				Destination: &schemaDir,
			},
			&cli.BoolFlag{Name: "settle", Usage: "fill defaults and run the option rules before pricing", Value: true, Destination: &settle},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			state, err := readState(stateJSON, stateFile)
			if err != nil {
				return err
			}
			schemas, err := schema.LoadDir(schemaDir)
			if err != nil {
				return goerr.Wrap(err, "failed to load schemas", goerr.V("dir", schemaDir))
			}
			catalog, err := store.NewFileCatalog(pricesFile, accessoriesFile)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}

			sessions := service.NewSessions(service.Config{Schemas: schemas, Catalog: catalog, Logger: log()})
			sel := service.Selection{ProductID: productID, OptionID: optionID, TypeID: int(c.Int("type"))}
			result, outcome, err := sessions.Calculate(ctx, sel, state, settle)
			if err != nil {
				return goerr.Wrap(err, "calculation failed", goerr.V("product", productID))
			}
			log().Info("calculation finished", "product", productID, "total", result.TotalPrice.String(), "warnings", len(outcome.Warnings))

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(calculation{ProductID: productID, State: outcome.State, Warnings: outcome.Warnings, Result: result})
		},
	}
}

func readState(inline, path string) (domain.State, error) {
	raw := []byte(inline)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read state file", goerr.V("path", path))
		}
		raw = data
	}
	state := domain.State{}
	if len(raw) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, goerr.Wrap(err, "state must be a JSON object")
	}
	return state, nil
}

func cmdValidateSchema(out io.Writer, log func() *logger.Logger) *cli.Command {
	var schemaDir string

	return &cli.Command{
		Name:      "validate-schema",
		Aliases:   []string{"v"},
		Usage:     "Validate product schema files",
		ArgsUsage: "[file.toml ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "schema-dir",
				Usage:       "directory validated when no files are given",
				Value:       "configs/schemas",
				Sources:     cli.EnvVars("SCHEMA_DIR"),
				Destination: &schemaDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				set, err := schema.LoadDir(schemaDir)
				if err != nil {
					return goerr.Wrap(err, "schema validation failed", goerr.V("dir", schemaDir))
				}
				for _, id := range set.ProductIDs() {
					s, _ := set.ProductSchema(ctx, id)
					fmt.Fprintf(out, "ok %s (%d fields)\n", id, len(s.Fields()))
				}
				return nil
			}

			var failed int
			for _, f := range files {
				s, err := schema.Load(f)
				if err != nil {
					log().Error("invalid schema", "path", f, "error", err)
					fmt.Fprintf(out, "FAIL %s: %v\n", f, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "ok %s (%d fields)\n", s.ProductID, len(s.Fields()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d schema file(s) invalid", failed, len(files))
			}
			return nil
		},
	}
}
