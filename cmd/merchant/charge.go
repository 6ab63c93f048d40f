package main

import (
	"encoding/json"
	"fmt"

	"github.com/alovak/cardflow-accept/merchant"
	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func chargeCmd(load loader) *cobra.Command {
	var payload models.PaymentPayload

	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Charge the demo order with an Accept.js token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			svc := merchant.NewService(merchant.NewGateway(cfg), merchant.NewRepository(), logger)
			result, err := svc.SubmitPayment(cmd.Context(), uuid.New().String(), payload)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(models.View(result)); err != nil {
				return err
			}
			if !result.IsSuccess() {
				return fmt.Errorf("payment declined")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.PaymentMethodNonceValue, "nonce-value", "", "opaque data value from Accept.js")
	cmd.Flags().StringVar(&payload.PaymentMethodNonceDescriptor, "nonce-descriptor", "COMMON.ACCEPT.INAPP.PAYMENT", "opaque data descriptor")
	cmd.MarkFlagRequired("nonce-value")

	return cmd
}
