package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/genderapi/config"
	"github.com/s0up4200/genderapi/genderapi"
)

// Lookup kinds accepted by the batch command
const (
	kindName     = "name"
	kindEmail    = "email"
	kindUsername = "username"
)

// lookupFunc performs one lookup for a raw input value
type lookupFunc func(ctx context.Context, input string) (genderapi.Result, error)

// newLookupFunc binds a lookup kind to the client and the configured modifiers
func newLookupFunc(api genderapi.API, kind string, opts config.LookupConfig) (lookupFunc, error) {
	switch strings.ToLower(kind) {
	case kindName:
		return func(ctx context.Context, input string) (genderapi.Result, error) {
			return api.LookupByName(ctx, genderapi.NameQuery{
				Name:             input,
				Country:          opts.Country,
				AskToAI:          opts.AskToAI,
				ForceToGenderize: opts.ForceToGenderize,
			})
		}, nil
	case kindEmail:
		return func(ctx context.Context, input string) (genderapi.Result, error) {
			return api.LookupByEmail(ctx, genderapi.EmailQuery{
				Email:   input,
				Country: opts.Country,
				AskToAI: opts.AskToAI,
			})
		}, nil
	case kindUsername:
		return func(ctx context.Context, input string) (genderapi.Result, error) {
			return api.LookupByUsername(ctx, genderapi.UsernameQuery{
				Username:         input,
				Country:          opts.Country,
				AskToAI:          opts.AskToAI,
				ForceToGenderize: opts.ForceToGenderize,
			})
		}, nil
	}
	return nil, fmt.Errorf("invalid lookup kind: %s (must be name, email or username)", kind)
}

// newLookupCmd builds the single-lookup command for a kind
func newLookupCmd(kind, short string, withForce bool) *cobra.Command {
	c := &cobra.Command{
		Use:   kind + " <" + kind + ">",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, kind, args[0])
		},
	}
	if withForce {
		c.Flags().Bool("force", false, "analyse nicknames, emojis and non-standard names")
	}
	return c
}

func init() {
	rootCmd.AddCommand(newLookupCmd(kindName, "Infer gender from a personal name", true))
	rootCmd.AddCommand(newLookupCmd(kindEmail, "Infer gender from an email address", false))
	rootCmd.AddCommand(newLookupCmd(kindUsername, "Infer gender from a social media username", true))
}

// lookupOptions applies the command's own --force flag, if it has one, over
// the configured modifiers
func lookupOptions(cmd *cobra.Command) (config.LookupConfig, error) {
	opts := cfg.Lookup
	if cmd.Flags().Changed("force") {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return opts, err
		}
		opts.ForceToGenderize = force
	}
	return opts, nil
}

func runLookup(cmd *cobra.Command, kind, input string) error {
	opts, err := lookupOptions(cmd)
	if err != nil {
		return err
	}

	lookup, err := newLookupFunc(client, kind, opts)
	if err != nil {
		return err
	}

	logger.Debug().Str("kind", kind).Str("input", input).Msg("Looking up gender")

	res, err := lookup(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("%s lookup failed: %w", kind, err)
	}

	if err := printResult(cmd.OutOrStdout(), cfg.Output.Format, res); err != nil {
		return err
	}

	if errRes, ok := res.(*genderapi.ErrorResult); ok {
		return errRes.Err()
	}
	return nil
}
