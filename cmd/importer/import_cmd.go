package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/composables"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/eventbus"
)

type importOptions struct {
	Region  string
	Month   int
	Year    int
	Replace bool
}

func (o *importOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Region, "region", "", "two-letter UF code, or ALL to keep every region the file quotes")
	cmd.Flags().IntVar(&o.Month, "month", 0, "reference month (1-12); read from the filename when omitted")
	cmd.Flags().IntVar(&o.Year, "year", 0, "reference year; read from the filename when omitted")
	cmd.Flags().BoolVar(&o.Replace, "replace", false, "deactivate the existing price window before importing")
}

type importRunner func(ctx context.Context, svc *services.ImportService, cmd *services.ImportCommand) (*services.ImportResult, error)

func newSinapiCmd() *cobra.Command {
	return newImportCmd(
		"sinapi <file>",
		"Import a SINAPI workbook or zipped bundle",
		func(ctx context.Context, svc *services.ImportService, cmd *services.ImportCommand) (*services.ImportResult, error) {
			return svc.ImportSINAPI(ctx, cmd)
		},
	)
}

func newSicroCmd() *cobra.Command {
	return newImportCmd(
		"sicro <file>",
		"Import a SICRO synthetic cost report",
		func(ctx context.Context, svc *services.ImportService, cmd *services.ImportCommand) (*services.ImportResult, error) {
			return svc.ImportSICRO(ctx, cmd)
		},
	)
}

func newSicroAnalyticCmd() *cobra.Command {
	return newImportCmd(
		"sicro-analytic <file>",
		"Import a SICRO analytic report (compositions, crews and production rates)",
		func(ctx context.Context, svc *services.ImportService, cmd *services.ImportCommand) (*services.ImportResult, error) {
			return svc.ImportSICROAnalytic(ctx, cmd)
		},
	)
}

func newImportCmd(use, short string, run importRunner) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			conf := configuration.Use()
			defer conf.Unload()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Second*5)
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			cancel()
			if err != nil {
				return err
			}
			defer pool.Close()

			app := application.New(&application.ApplicationOptions{
				Pool:     pool,
				EventBus: eventbus.NewEventPublisher(conf.Logger()),
				Logger:   conf.Logger(),
			})
			if err := modules.Load(app, modules.BuiltInModules...); err != nil {
				return err
			}
			if err := app.Migrations().Apply(cmd.Context(), pool); err != nil {
				return err
			}

			svc := app.Service(services.ImportService{}).(*services.ImportService)
			runCtx := composables.WithPool(cmd.Context(), pool)

			result, err := run(runCtx, svc, &services.ImportCommand{
				Filename: filepath.Base(args[0]),
				Data:     data,
				Region:   strings.ToUpper(strings.TrimSpace(opts.Region)),
				Month:    opts.Month,
				Year:     opts.Year,
				Replace:  opts.Replace,
				OnProgress: func(percent int, message string) {
					fmt.Printf("[%3d%%] %s\n", percent, message)
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf(
				"%s %02d/%d: %d itens, %d preços, %d vínculos importados\n",
				result.Source, result.Month, result.Year,
				result.Items, result.Prices, result.Links,
			)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}
