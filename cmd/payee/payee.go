// Package payee exposes the payee normalizer as a standalone command
package payee

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookkeeper/internal/payee"
)

// Cmd represents the payee command
var Cmd = &cobra.Command{
	Use:   "payee <raw payee>...",
	Short: "Show the normalized vendor key for raw payee strings",
	Long: `Run raw bank statement payee strings through the normalizer and print the
resulting vendor keys. Useful for checking how garbled descriptors collapse.

Example:
  bookkeeper payee "AMZN Digital*GM3C83WE3" "PAYPAL  INST XFER  SPOTIFY"`,
	Args: cobra.MinimumNArgs(1),
	Run:  payeeFunc,
}

func payeeFunc(cmd *cobra.Command, args []string) {
	for _, raw := range args {
		fmt.Printf("%s -> %s\n", raw, payee.Normalize(raw))
	}
}
