package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/transferledger/internal/adapter/http/dto"
	"github.com/iho/transferledger/internal/infrastructure/logger"
	"github.com/iho/transferledger/internal/infrastructure/postgres"
)

// errInconsistent is returned by `ledger consistency` when the check fails.
var errInconsistent = errors.New("ledger is inconsistent")

type options struct {
	baseURL string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Transfer ledger CLI tool",
		Long:          `A command line interface for interacting with the transfer ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newAccountsCmd(opts),
		newTransfersCmd(opts),
		newLedgerCmd(opts),
		newMigrateCmd(),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func newAccountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var balance string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an initial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := opts.client().post(cmd.Context(), "/api/v1/accounts", map[string]string{"balance": balance}, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}
	createCmd.Flags().StringVar(&balance, "balance", "0", "Initial balance, at most two decimal places")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var account dto.AccountResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/accounts/"+id, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListAccountsResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/accounts", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Accounts)
		},
	}

	transfersCmd := &cobra.Command{
		Use:   "transfers ID",
		Short: "List the transfers of an account, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var resp dto.ListTransfersResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/accounts/"+id+"/transfers", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Transfers)
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd, transfersCmd)
	return cmd
}

func newTransfersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}

	var (
		from, to        int64
		amount, idemKey string
	)
	makeCmd := &cobra.Command{
		Use:   "make",
		Short: "Move money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"from": from, "to": to, "amount": amount}
			var transfer dto.TransferResponse
			if err := opts.client().postWithKey(cmd.Context(), "/api/v1/transfers", idemKey, body, &transfer); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}
	makeCmd.Flags().Int64Var(&from, "from", 0, "Source account ID")
	makeCmd.Flags().Int64Var(&to, "to", 0, "Destination account ID")
	makeCmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer, at most two decimal places")
	makeCmd.Flags().StringVar(&idemKey, "idempotency-key", "", "Idempotency-Key header for safe retries")
	_ = makeCmd.MarkFlagRequired("from")
	_ = makeCmd.MarkFlagRequired("to")
	_ = makeCmd.MarkFlagRequired("amount")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var transfer dto.TransferResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/transfers/"+id, &transfer); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transfers, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListTransfersResponse
			if err := opts.client().get(cmd.Context(), "/api/v1/transfers", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Transfers)
		},
	}

	cmd.AddCommand(makeCmd, getCmd, listCmd)
	return cmd
}

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := opts.client().get(cmd.Context(), "/api/v1/ledger/consistency", &report)

			var apiErr *apiError
			inconsistent := errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
			if err != nil && !inconsistent {
				return err
			}

			out := cmd.OutOrStdout()
			if inconsistent {
				if jsonErr := apiErr.decode(&report); jsonErr != nil {
					return jsonErr
				}
				fmt.Fprintln(out, "Consistency check FAILED")
			} else {
				fmt.Fprintln(out, "Consistency check PASSED")
			}
			if err := printJSON(out, report); err != nil {
				return err
			}
			if inconsistent {
				return errInconsistent
			}
			return nil
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	return ledgerCmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}

			log := logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
			return runMigration(args[0], databaseURL, log)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")

	return cmd
}

func runMigration(direction, databaseURL string, log zerolog.Logger) error {
	switch direction {
	case "up":
		return postgres.RunMigrations(databaseURL, log)
	case "down":
		return postgres.RunMigrationsDown(databaseURL, log)
	default:
		return fmt.Errorf("unknown migration direction %q, want up or down", direction)
	}
}

// parseID validates a positive numeric id before it is put in a URL.
func parseID(s string) (string, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid id %q", s)
	}
	return strconv.FormatInt(id, 10), nil
}
