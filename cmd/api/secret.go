package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calendarapi/calendar-api/internal/crypto"
)

func newSecretCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random SECRET_KEY suitable for production",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := crypto.GenerateSecret(length)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SECRET_KEY=%s\n", secret)
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", crypto.DefaultSecretLength, "number of characters")
	return cmd
}
