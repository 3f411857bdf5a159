package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"teachjournal/internal/storage"
)

func newSeedCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the development teachers and sample entries",
		Long: "Creates the development teachers that are not present yet and generates " +
			"sample journal entries for them. Existing teachers are left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadStorageConfig()
			if err != nil {
				return err
			}
			SetupLogger(cfg.SlogLevel())

			store, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			now := time.Now()
			if seed == 0 {
				seed = uint64(now.UnixNano())
			}
			res, err := storage.Seed(cmd.Context(), store, storage.DefaultSeedTeachers(), now, rand.New(rand.NewPCG(seed, 0)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teachers, %d entries\n", res.Teachers, res.Entries)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for generated entries (0 picks one)")
	return cmd
}
