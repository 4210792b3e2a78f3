package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wanderai-backend/internal/pexels"
)

func newPexelsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pexels",
		Short: "Inspect the Pexels photo API account",
	}

	client := func() (*pexels.Client, error) {
		if e.cfg.Pexels.APIKey == "" {
			return nil, errors.New("PEXELS_API_KEY is not set")
		}
		return pexels.NewClient(e.cfg.Pexels, e.log), nil
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the remaining request quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			rl, err := c.RateLimitStatus(cmd.Context())
			if err != nil {
				return err
			}
			reset := "unknown"
			if rl.Reset > 0 {
				reset = time.Unix(rl.Reset, 0).UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(e.out, "limit: %d\nremaining: %d\nreset: %s\n", rl.Limit, rl.Remaining, reset)
			return nil
		},
	}

	var count int
	curated := &cobra.Command{
		Use:   "curated",
		Short: "List curated photos, a quick check that the key works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			res, err := c.Curated(cmd.Context(), count)
			if err != nil {
				return err
			}
			for _, p := range res.Photos {
				fmt.Fprintf(e.out, "%d\t%s\t%s\n", p.ID, p.Photographer, p.Src.Large)
			}
			return nil
		},
	}
	curated.Flags().IntVarP(&count, "count", "n", 5, "number of photos")

	cmd.AddCommand(status, curated)
	return cmd
}
