package main

import (
	"fmt"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the active profile",
	}
	cmd.AddCommand(newProfileGetCmd(), newProfileSetCmd(), newProfileListCmd())

	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the profile named in the selector file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			name, note := currentProfile(profile.NewFileSelector(cfg.ProfileFile))
			if note != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, mutedStyle.Render("("+note+")"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)

			return nil
		},
	}
}

// currentProfile resolves what the daemon would pick at startup. note
// explains a fallback to the default.
func currentProfile(sel *profile.FileSelector) (profile.Name, string) {
	raw, err := sel.Read()
	if err != nil {
		return profile.Default, "default, selector unreadable"
	}

	name, err := profile.Parse(raw)
	switch {
	case errors.HasCode(err, errors.ErrEmptyProfile):
		return profile.Default, "default, selector empty"
	case err != nil:
		return profile.Default, fmt.Sprintf("default, %q is not a profile", raw)
	}

	return name, ""
}

func newProfileSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set [profile]",
		Short:     "Write a profile to the selector file",
		Long:      "Write a profile to the selector file. Without an argument a profile is chosen interactively.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: profileNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sel := profile.NewFileSelector(cfg.ProfileFile)

			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				current, _ := currentProfile(sel)
				raw, err = promptProfile(current)
				if err != nil {
					return err
				}
			}

			name, err := profile.Parse(raw)
			if err != nil {
				return err
			}
			if err := sel.Write(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile set to %s\n", activeStyle.Render(name.String()))

			return nil
		},
	}
}

func promptProfile(current profile.Name) (string, error) {
	options := make([]huh.Option[string], 0, len(profile.All()))
	for _, n := range profile.All() {
		options = append(options, huh.NewOption(n.String(), n.String()))
	}

	selected := current.String()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which profile should the panels show?").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.New().Wrap(errors.ErrOperationFailed, err)
	}

	return selected, nil
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			current, _ := currentProfile(profile.NewFileSelector(cfg.ProfileFile))
			for _, n := range profile.All() {
				if n == current {
					fmt.Fprintf(cmd.OutOrStdout(), "* %s\n", activeStyle.Render(n.String()))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
			}

			return nil
		},
	}
}

func profileNames() []string {
	names := make([]string, 0, len(profile.All()))
	for _, n := range profile.All() {
		names = append(names, n.String())
	}
	return names
}
