package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"zerocoin/internal/zerocoin"
)

var (
	flagParamsOut       string
	flagModulusBits     int
	flagOrderBits       int
	flagAccumulatorBits int
	flagExtraBits       int
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Generate and check scheme parameters",
}

var paramsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh parameter set",
	Long: `Generate the coin commitment group, the serial number and accumulator proof groups and
the RSA accumulator. Sizes default to the config file's generation section; flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := cfg.Generation
		flags := cmd.Flags()
		overrideInt(flags, "modulus-bits", &gen.ModulusBits, flagModulusBits)
		overrideInt(flags, "order-bits", &gen.OrderBits, flagOrderBits)
		overrideInt(flags, "accumulator-bits", &gen.AccumulatorModulusBits, flagAccumulatorBits)
		overrideInt(flags, "extra-bits", &gen.ExtraBits, flagExtraBits)

		log.Info().
			Int("modulus_bits", gen.ModulusBits).
			Int("order_bits", gen.OrderBits).
			Int("accumulator_bits", gen.AccumulatorModulusBits).
			Msg("generating parameters")
		params, err := zerocoin.GenerateParams(cmd.Context(), nil, gen)
		if err != nil {
			return err
		}

		out := flagParamsOut
		if out == "" {
			out = cfg.ParamsPath
		}
		return SaveParams(out, params)
	},
}

var paramsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a parameter file",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}
		acc := params.AccumulatorParams()
		log.Info().
			Int("coin_modulus_bits", params.CoinCommitmentGroup().Modulus().BitLen()).
			Int("accumulator_modulus_bits", acc.Modulus().BitLen()).
			Str("min_coin_value", acc.MinCoinValue().String()).
			Bool("serial_number_sok_group", params.SerialNumberSoKCommitmentGroup() != nil).
			Bool("accumulator_pok_group", params.AccumulatorPoKCommitmentGroup() != nil).
			Msg("parameters are valid")
		return nil
	},
}

// overrideInt sets *dst to v when the named flag was given.
func overrideInt(flags *pflag.FlagSet, name string, dst *int, v int) {
	if flags.Changed(name) {
		*dst = v
	}
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.AddCommand(paramsGenerateCmd, paramsValidateCmd)

	paramsGenerateCmd.Flags().StringVarP(&flagParamsOut, "out", "o", "",
		"output file (defaults to the params path)")
	paramsGenerateCmd.Flags().IntVar(&flagModulusBits, "modulus-bits", 0, "coin group modulus size")
	paramsGenerateCmd.Flags().IntVar(&flagOrderBits, "order-bits", 0, "coin group order size")
	paramsGenerateCmd.Flags().IntVar(&flagAccumulatorBits, "accumulator-bits", 0, "accumulator modulus size")
	paramsGenerateCmd.Flags().IntVar(&flagExtraBits, "extra-bits", 0, "extra bits of the proof groups")
}
