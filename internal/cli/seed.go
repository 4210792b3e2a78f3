package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wanderai-backend/internal/database"
	"wanderai-backend/internal/repository"
)

func newSeedCmd(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the destination catalog into an empty database",
		Long: `Seed inserts the destination catalog when the destinations table is empty.
Without --file the built-in catalog is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var data []byte
			if file != "" {
				var err error
				if data, err = os.ReadFile(file); err != nil {
					return fmt.Errorf("read catalog: %w", err)
				}
			}

			pool, err := database.Connect(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := database.SeedDestinations(cmd.Context(), repository.NewDestinationRepository(pool), data, e.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "seeded %d destinations\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to load instead of the built-in one")
	return cmd
}
