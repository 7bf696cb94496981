package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	env *Env
}

func NewProfilesCmd(env *Env) *cobra.Command {
	pc := &ProfilesCmd{env: env}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the ledger connection profiles",
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if pc.env.Profiles == nil {
		fmt.Fprintln(out, "No profiles file found")
		return nil
	}

	names, err := pc.env.Profiles.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles configured")
		return nil
	}

	for _, name := range names {
		p, err := pc.env.Profiles.GetProfile(ctx, name)
		if err != nil {
			fmt.Fprintf(out, "%s\tinvalid: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", p.Name, p.Driver, p.Table)
	}
	return nil
}
