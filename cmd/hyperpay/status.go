package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/hyperpay"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	"github.com/kevin07696/hyperpay-gateway/internal/services/payment"
)

func statusCmd(opts *globalOptions) *cobra.Command {
	var (
		brand    string
		detailed bool
		poll     int
	)

	cmd := &cobra.Command{
		Use:   "status <payment-id>",
		Short: "Query the status of a payment",
		Long: `Query HyperPay for the current state of a payment and classify
its result code. With --poll the query is repeated with backoff while the
payment is pending.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, logger, gw, err := loadConfig(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc := payment.NewService(hyperpay.NewClient(gw, nil, logger), logger)

			var resp *domain.GatewayResponse
			if poll > 1 {
				resp, err = svc.PollStatus(ctx, args[0], brand, poll)
			} else {
				resp, err = svc.GetStatus(ctx, args[0], brand)
			}
			if err != nil {
				logger.Debug("Status query failed", zap.Error(err))
				return err
			}
			return printStatus(cmd.OutOrStdout(), resp, detailed)
		},
	}

	cmd.Flags().StringVarP(&brand, "brand", "b", "", "payment brand used for the entity id (required)")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "print the full result code classification")
	cmd.Flags().IntVar(&poll, "poll", 1, "maximum queries while the payment is pending")
	_ = cmd.MarkFlagRequired("brand")

	return cmd
}

func printStatus(w io.Writer, resp *domain.GatewayResponse, detailed bool) error {
	info := resp.ResultInfo()

	fmt.Fprintf(w, "Payment:     %s\n", resp.PaymentID())
	fmt.Fprintf(w, "Result code: %s\n", resp.ResultCode)
	fmt.Fprintf(w, "Description: %s\n", info.Description)
	fmt.Fprintf(w, "Category:    %s\n", info.Category)
	fmt.Fprintf(w, "Outcome:     %s\n", resp.Outcome())
	if resp.Amount != nil {
		fmt.Fprintf(w, "Amount:      %s %s\n", *resp.Amount, domain.StringValue(resp.Currency))
	}
	if resp.RegistrationID != nil {
		fmt.Fprintf(w, "Registration: %s\n", *resp.RegistrationID)
	}

	if !detailed {
		return nil
	}
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", out)
	return nil
}
