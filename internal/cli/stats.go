package cli

import (
	"github.com/spf13/cobra"

	clientstats "github.com/partydeck/playerlink/internal/client/stats"
	"github.com/partydeck/playerlink/internal/model"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Gameplay stats commands",
	}

	cmd.AddCommand(newStatsRecordCmd())

	return cmd
}

func newStatsRecordCmd() *cobra.Command {
	var (
		profileID  string
		slug       string
		points     int
		won        bool
		correct    int
		incorrect  int
		responseMs int64
		perfect    bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a gameplay outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only explicitly set flags make it into the payload
			var update model.StatsUpdate
			if cmd.Flags().Changed("points") {
				update.PointsEarned = &points
			}
			if cmd.Flags().Changed("won") {
				update.Won = &won
			}
			if cmd.Flags().Changed("correct") {
				update.CorrectAnswers = &correct
			}
			if cmd.Flags().Changed("incorrect") {
				update.IncorrectAnswers = &incorrect
			}
			if cmd.Flags().Changed("response-ms") {
				update.ResponseTimeMs = &responseMs
			}
			if cmd.Flags().Changed("perfect") {
				update.PerfectRound = &perfect
			}

			if profileID == "" {
				if cached, ok := ids.ProfileID(); ok {
					profileID = cached
				}
			}

			recorder := clientstats.NewRecorder(apiClient, ids, signals)
			if err := recorder.Record(cmd.Context(), cfg.Token != "", profileID, slug, update); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Stats recorded")
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile id (defaults to the cached identity)")
	cmd.Flags().StringVar(&slug, "game", "", "Game slug (required)")
	cmd.Flags().IntVar(&points, "points", 0, "Points earned")
	cmd.Flags().BoolVar(&won, "won", false, "Whether the game was won")
	cmd.Flags().IntVar(&correct, "correct", 0, "Correct answers")
	cmd.Flags().IntVar(&incorrect, "incorrect", 0, "Incorrect answers")
	cmd.Flags().Int64Var(&responseMs, "response-ms", 0, "Response time in milliseconds")
	cmd.Flags().BoolVar(&perfect, "perfect", false, "Perfect round")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}
