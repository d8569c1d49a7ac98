package command

import (
	commandHandler "trac/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewSeedHandler)

// Command 需要資料庫連線的子命令
type Command struct {
	seedCommandHandler *commandHandler.SeedHandler
}

// NewCommand .
func NewCommand(
	seedCommandHandler *commandHandler.SeedHandler,
) *Command {
	return &Command{
		seedCommandHandler: seedCommandHandler,
	}
}

// Register 掛上 seed 與 replay；replay 只用記憶體資料，不建立資料庫連線
func Register(
	rootCmd *cobra.Command,
	newCmd func() (*Command, func(), error),
	newReplay func() *commandHandler.ReplayHandler,
) {
	var seedFixture string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "upsert fixture documents into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.seedCommandHandler.Seed(cmd.Context(), cmd.OutOrStdout(), seedFixture)
		},
	}
	seedCmd.Flags().StringVar(&seedFixture, "fixture", "", "fixture yaml file")
	_ = seedCmd.MarkFlagRequired("fixture")

	var replay commandHandler.ReplayOptions
	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "load a fixture in memory, sign the actor in and print the aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newReplay().Replay(cmd.Context(), cmd.OutOrStdout(), replay)
		},
	}
	replayCmd.Flags().StringVar(&replay.FixturePath, "fixture", "", "fixture yaml file")
	replayCmd.Flags().StringVar(&replay.ActorID, "actor", "", "actor id to sign in as")
	replayCmd.Flags().StringVar(&replay.At, "at", "", "evaluation time (RFC3339), defaults to now")
	replayCmd.Flags().StringVar(&replay.EmployeeID, "employee", "", "also print the detail of this employee")
	_ = replayCmd.MarkFlagRequired("fixture")
	_ = replayCmd.MarkFlagRequired("actor")

	rootCmd.AddCommand(seedCmd, replayCmd)
}
