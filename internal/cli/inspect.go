package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	scoreio "github.com/notationkit/stave/pkg/io"
	"github.com/notationkit/stave/pkg/score"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [score.json]",
		Short: "Check a score file against the structural invariants",
		Long: `Check a score file against the structural invariants.

Validation verifies that the file parses, that every instrument has one
or two staves with at least one voice each, that structural events are
well formed, and that no voice holds overlapping notes of the same
pitch. A valid score is guaranteed to lay out without errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scoreio.ImportScore(args[0])
			if err != nil {
				return err
			}
			printSuccess("Score is valid")
			printDetail("%d instruments, %d notes, last tick %d",
				len(sc.Instruments), sc.NoteCount(), sc.LastTick())
			if sc.NoteCount() == 0 {
				printWarning("Score has no notes")
			}
			return nil
		},
	}
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [score.json]",
		Short: "Print a summary of a score file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scoreio.ImportScore(args[0])
			if err != nil {
				return err
			}
			printScoreSummary(sc)
			return nil
		},
	}
}

// printScoreSummary prints the score's shape and extent.
func printScoreSummary(sc *score.Score) {
	staves, voices := 0, 0
	for _, inst := range sc.Instruments {
		staves += len(inst.Staves)
		for _, staff := range inst.Staves {
			voices += len(staff.Voices)
		}
	}

	printKeyValue("id", sc.ID)
	printKeyValue("instruments", fmt.Sprintf("%d", len(sc.Instruments)))
	printKeyValue("staves", fmt.Sprintf("%d", staves))
	printKeyValue("voices", fmt.Sprintf("%d", voices))
	printKeyValue("notes", fmt.Sprintf("%d", sc.NoteCount()))
	printKeyValue("events", fmt.Sprintf("%d", len(sc.Events)))
	printKeyValue("last tick", fmt.Sprintf("%d", sc.LastTick()))

	for _, inst := range sc.Instruments {
		printNewline()
		printInfo("%s (%s)", inst.Name, inst.Kind)
		for i, staff := range inst.Staves {
			notes := 0
			for _, v := range staff.Voices {
				notes += len(v.Notes)
			}
			printDetail("staff %d: clef %s, %d voices, %d notes",
				i+1, staff.ClefAt(0), len(staff.Voices), notes)
		}
	}
}
