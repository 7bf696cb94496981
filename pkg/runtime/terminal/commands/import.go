package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/services/source"
)

type ImportCmd struct {
	env     *Env
	profile string
}

func NewImportCmd(env *Env) *cobra.Command {
	ic := &ImportCmd{env: env}
	cmd := &cobra.Command{
		Use:     "import FILE...",
		Short:   "Append booking files to the ledger of a profile",
		Example: `  ledger import --profile local 2023.json 2024.yaml`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    ic.run,
	}

	cmd.Flags().StringVar(&ic.profile, "profile", "", "Target profile")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := ic.env.Resolver.Store(ctx, ic.profile)
	if err != nil {
		return err
	}

	var total int
	for _, path := range args {
		bookings, err := source.NewFileSource(path).Bookings(ctx)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		n, err := store.AppendBookings(ctx, adapters.MapDomainBookingsToStore(bookings))
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		total += n
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bookings\n", path, n)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookings into %s\n", total, ic.profile)
	return nil
}
