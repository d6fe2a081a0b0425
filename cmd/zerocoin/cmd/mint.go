package cmd

import (
	"github.com/spf13/cobra"

	"zerocoin/internal/zerocoin"
)

var (
	flagDenomination string
	flagCount        int
)

// mintedCoin is the JSON form of a minted coin. It contains the secret opening.
type mintedCoin struct {
	Denomination zerocoin.Denomination `json:"denomination"`
	Value        string                `json:"value"`
	SerialNumber string                `json:"serial_number"`
	Randomness   string                `json:"randomness"`
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint coins and print them, including their secret openings",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := zerocoin.ParseDenomination(flagDenomination)
		if err != nil {
			return err
		}
		params, err := LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}
		opts, err := cfg.engineOptions()
		if err != nil {
			return err
		}
		opts = append(opts, zerocoin.WithLogger(log), zerocoin.WithMetrics(collector))

		coins, err := zerocoin.MintCoins(cmd.Context(), nil, params, d, flagCount, opts...)
		if err != nil {
			return err
		}
		out := make([]mintedCoin, len(coins))
		for i, c := range coins {
			out[i] = mintedCoin{
				Denomination: d,
				Value:        c.PublicCoin().Value().String(),
				SerialNumber: c.SerialNumber().String(),
				Randomness:   c.Randomness().String(),
			}
		}
		printMetrics()
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVarP(&flagDenomination, "denomination", "d", zerocoin.Lovelace.String(),
		"denomination name or value")
	mintCmd.Flags().IntVarP(&flagCount, "count", "n", 1, "number of coins to mint")
}
