package cli

import (
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var score, distance int64

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a game result",
		Long: `Submit a game result as the logged-in user.

Bike race servers require --distance; snake servers ignore it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"score": score}
			if cmd.Flags().Changed("distance") {
				req["distance"] = distance
			}
			var result Result

			if err := client.Post(cmd.Context(), "/submit_score", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&score, "score", 0, "Score (required)")
	cmd.Flags().Int64Var(&distance, "distance", 0, "Distance travelled")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard

			if err := client.Get(cmd.Context(), "/leaderboard", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your best score, recent results and logins",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get(cmd.Context(), "/profile", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
