package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partydeck/playerlink/internal/api/response"
	clientmerge "github.com/partydeck/playerlink/internal/client/merge"
	clientprofile "github.com/partydeck/playerlink/internal/client/profile"
	"github.com/partydeck/playerlink/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player identity commands",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerProfileCmd())
	cmd.AddCommand(newPlayerMergeCmd())
	cmd.AddCommand(newPlayerAppearanceCmd())
	cmd.AddCommand(newPlayerAvatarsCmd())

	return cmd
}

func newPlayerGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Resolve (or provision) the local guest profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := clientprofile.NewResolver(apiClient, ids)
			resolver.OnSession = func(token string) {
				_ = cfg.SaveToken(token)
			}

			full, err := resolver.Resolve(cmd.Context(), false, name)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(full)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name hint for provisioning")

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result response.Auth

			if err := apiClient.Post(cmd.Context(), "/api/player/register", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			apiClient.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result response.Auth

			if err := apiClient.Post(cmd.Context(), "/api/player/login", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			apiClient.SetToken(result.SessionToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the profile for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var full model.FullProfile

			if err := apiClient.Get(cmd.Context(), "/api/player/me", &full); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(&full)
			return nil
		},
	}
}

func newPlayerProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <id>",
		Short: "Show a profile by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var full model.FullProfile

			if err := apiClient.Get(cmd.Context(), "/api/player/profile/"+args[0], &full); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(&full)
			return nil
		},
	}
}

func newPlayerMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge the local guest history into the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator := clientmerge.NewCoordinator(apiClient, ids, signals)

			merged, err := coordinator.Evaluate(cmd.Context(), cfg.Token != "")
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if merged {
				out.PrintMessage("Guest history merged")
			} else {
				out.PrintMessage("Nothing to merge")
			}
			return nil
		},
	}
}

func newPlayerAppearanceCmd() *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "appearance",
		Short: "Update display name and/or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && avatar == "" {
				return fmt.Errorf("at least one of --name or --avatar is required")
			}

			req := map[string]string{
				"display_name": name,
				"avatar_id":    avatar,
			}
			var profile model.PlayerProfile

			if err := apiClient.Patch(cmd.Context(), "/api/player/me/appearance", req, &profile); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "New avatar key")

	return cmd
}

func newPlayerAvatarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatars",
		Short: "List the avatar catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Avatars

			if err := apiClient.Get(cmd.Context(), "/api/player/avatars", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
