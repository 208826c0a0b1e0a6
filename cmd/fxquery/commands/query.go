package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	domain "github.com/damon-houk/fx-rate-client/internal/domain/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/api"
)

func queryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Short:   "Fetch the current exchange rate",
		Example: "  fxquery query --param from=USD --param to=EUR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, opts.client.QueryExchangeRate)
		},
	}
	addParamFlag(cmd, opts)
	return cmd
}

func historyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Fetch the exchange rate history",
		Example: "  fxquery history --param from=USD --param to=EUR --param start=2023-01-01",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, opts.client.QueryExchangeRateHistory)
		},
	}
	addParamFlag(cmd, opts)
	return cmd
}

func addParamFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "query parameter as key=value (repeatable)")
}

type queryFunc func(ctx context.Context, param entity.QueryParam) *domain.Result

func run(cmd *cobra.Command, opts *options, query queryFunc) error {
	param, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	resp, err := query(ctx, param).Await(ctx)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s\n", statusErr.Status, statusErr.Body)
		}
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(resp.Body))
	return err
}

// parseParams turns key=value pairs into query data; a repeated key yields a list
func parseParams(pairs []string) (entity.QueryParam, error) {
	param := entity.QueryParam{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}

		switch existing := param[key].(type) {
		case nil:
			param[key] = value
		case string:
			param[key] = []string{existing, value}
		case []string:
			param[key] = append(existing, value)
		}
	}

	return param, nil
}
