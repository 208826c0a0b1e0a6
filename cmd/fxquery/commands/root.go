package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-rate-client/internal/application/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/api"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/config"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
)

type options struct {
	baseURL string
	timeout time.Duration
	params  []string

	client *service.ExchangeRateService
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the fxquery command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "fxquery",
		Short:         "Query current and historical exchange rates",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("base-url") {
				cfg.Client.BaseURL = opts.baseURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Client.Timeout = opts.timeout
			}

			// Logs go to stderr so stdout stays pure JSON
			log := logger.NewJSONLogger(os.Stderr, logger.ParseLevel(cfg.Log.Level))

			transport, err := api.NewHTTPTransportFromConfig(cfg.Client, log, nil)
			if err != nil {
				return err
			}

			opts.client = service.NewExchangeRateService(transport, log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "exchange-rate API base URL (overrides FX_BASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout (overrides FX_TIMEOUT)")

	root.AddCommand(queryCmd(opts), historyCmd(opts))
	return root
}
