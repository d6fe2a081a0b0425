package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"

	"zerocoin/internal/circuit"
	"zerocoin/internal/transcript"
	"zerocoin/internal/zerocoin"
)

var (
	flagDemoCoins int
	flagSnark     bool
	flagCacheSize int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run mint, accumulate, witness and equality proof end to end",
	Long: `Mint a batch of coins, publish them in an accumulator, track a membership witness for
the first coin and prove that the coin value committed in the serial number SoK group equals
the one committed in the accumulator PoK group. With --snark the MiMC challenge of that proof
is additionally attested by a Groth16 proof.

Parameters are read from the params path and generated there when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDemoCoins < 1 {
			return fmt.Errorf("--coins must be positive, got %d", flagDemoCoins)
		}
		params, err := demoParams(cmd)
		if err != nil {
			return err
		}
		opts, err := cfg.engineOptions()
		if err != nil {
			return err
		}
		if flagSnark {
			opts = append(opts, zerocoin.WithChallengeHash(transcript.MiMC))
		}
		validator, err := zerocoin.NewCoinValidator(flagCacheSize)
		if err != nil {
			return err
		}
		opts = append(opts,
			zerocoin.WithLogger(log),
			zerocoin.WithMetrics(collector),
			zerocoin.WithValidator(validator))

		// 1. mint
		log.Info().Int("coins", flagDemoCoins).Msg("✨ minting coins")
		coins, err := zerocoin.MintCoins(cmd.Context(), nil, params, zerocoin.Lovelace, flagDemoCoins, opts...)
		if err != nil {
			return err
		}
		mine := coins[0].PublicCoin()

		// 2. accumulate and track a witness for the first coin
		log.Info().Msg("✨ accumulating coins and tracking a witness")
		accParams := params.AccumulatorParams()
		acc, err := zerocoin.NewAccumulator(accParams, zerocoin.Lovelace, opts...)
		if err != nil {
			return err
		}
		witness, err := zerocoin.NewAccumulatorWitness(accParams, acc, mine)
		if err != nil {
			return err
		}
		for _, c := range coins {
			if err := acc.Accumulate(c.PublicCoin()); err != nil {
				return err
			}
			if err := witness.AddElement(c.PublicCoin()); err != nil {
				return err
			}
		}
		if !witness.Verify(acc) {
			return errors.New("membership witness does not verify")
		}
		log.Info().Int("cached_validations", validator.Len()).Msg("witness verifies against the accumulator")

		meta := zerocoin.NewSpendMetaData(sha3.Sum256(acc.Value().Bytes()), sha3.Sum256(mine.Value().Bytes()))
		accID := meta.AccumulatorID()
		log.Info().Str("accumulator_id", hex.EncodeToString(accID[:])).Msg("accumulator checkpoint")

		// 3. equality proof between the two proof groups
		log.Info().Msg("✨ proving commitment equality")
		sok, pok := params.SerialNumberSoKCommitmentGroup(), params.AccumulatorPoKCommitmentGroup()
		if sok == nil || pok == nil {
			return errors.New("params lack the serial number SoK or accumulator PoK group")
		}
		a, err := zerocoin.NewCommitment(nil, sok, mine.Value())
		if err != nil {
			return err
		}
		b, err := zerocoin.NewCommitment(nil, pok, mine.Value())
		if err != nil {
			return err
		}
		proof, err := zerocoin.NewCommitmentEqualityProof(nil, sok, pok, a, b, opts...)
		if err != nil {
			return err
		}
		if !proof.Verify(a.CommitmentValue(), b.CommitmentValue()) {
			return errors.New("commitment equality proof does not verify")
		}
		log.Info().Str("hash", proof.Hash().String()).Msg("equality proof verifies")

		// 4. optional SNARK attestation of the challenge
		if flagSnark {
			if err := attestChallenge(proof, a, b); err != nil {
				return err
			}
		}

		printMetrics()
		log.Info().Msg("🪙 done")
		return nil
	},
}

func demoParams(cmd *cobra.Command) (*zerocoin.Params, error) {
	if _, err := os.Stat(cfg.ParamsPath); err == nil {
		return LoadParams(cfg.ParamsPath)
	}
	log.Info().Str("path", cfg.ParamsPath).Msg("✨ no parameters found, generating")
	params, err := zerocoin.GenerateParams(cmd.Context(), nil, cfg.Generation)
	if err != nil {
		return nil, err
	}
	if err := SaveParams(cfg.ParamsPath, params); err != nil {
		return nil, err
	}
	return params, nil
}

func attestChallenge(proof *zerocoin.CommitmentEqualityProof, a, b *zerocoin.Commitment) error {
	log.Info().Msg("✨ attesting the challenge with Groth16")
	data, err := proof.Transcript(a.CommitmentValue(), b.CommitmentValue())
	if err != nil {
		return err
	}
	n := circuit.Elements(len(data))
	ccs, err := circuit.Compile(n)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.KeyDir, 0755); err != nil {
		return fmt.Errorf("could not create key dir: %w", err)
	}
	pkPath := filepath.Join(cfg.KeyDir, fmt.Sprintf("challenge_%d.pk", n))
	vkPath := filepath.Join(cfg.KeyDir, fmt.Sprintf("challenge_%d.vk", n))
	pk, vk, err := circuit.SetupOrLoadKeys(ccs, pkPath, vkPath)
	if err != nil {
		return err
	}
	snark, challenge, err := circuit.Prove(ccs, pk, data)
	if err != nil {
		return err
	}
	if challenge.Cmp(proof.Challenge()) != 0 {
		return errors.New("circuit challenge differs from the proof challenge")
	}
	if err := circuit.Verify(vk, snark, data, proof.Challenge()); err != nil {
		return err
	}
	log.Info().Int("elements", n).Int("proof_bytes", len(snark)).Msg("challenge attestation verifies")
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVarP(&flagDemoCoins, "coins", "n", 4, "number of coins to mint")
	demoCmd.Flags().BoolVar(&flagSnark, "snark", false, "attest the MiMC challenge with a Groth16 proof")
	demoCmd.Flags().IntVar(&flagCacheSize, "cache-size", 1024, "coin validation cache size")
}
