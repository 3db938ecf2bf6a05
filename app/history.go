package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/autoblock/internal/pathutil"
	"github.com/ayoisaiah/autoblock/internal/ui"
	"github.com/ayoisaiah/autoblock/store"
)

const (
	noActivationsMsg  = "No activations found for the specified time range"
	historyTimeFormat = "Jan 02, 2006 03:04 PM"
)

// historyAction lists the activations of the last --days days.
func historyAction(ctx *cli.Context) error {
	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	since := time.Now().AddDate(0, 0, -ctx.Int("days"))

	activations, err := db.Activations(since, time.Time{})
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printActivationsJSON(os.Stdout, activations)
	}

	if len(activations) == 0 {
		pterm.Info.Println(noActivationsMsg)
		return nil
	}

	return ui.PrintTable(historyRows(activations), os.Stdout)
}

func printActivationsJSON(w io.Writer, activations []store.Activation) error {
	if activations == nil {
		activations = []store.Activation{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(activations)
}

// historyRows returns the history table with a header row.
func historyRows(activations []store.Activation) [][]string {
	rows := make([][]string, 0, len(activations)+1)

	rows = append(rows, []string{
		"#", "STARTED", "TARGET", "TRIGGER", "ATTEMPTS", "RESULT", "ERROR",
	})

	for i := range activations {
		a := &activations[i]

		result := string(a.Result)

		switch a.Result {
		case store.ResultStarted, store.ResultAlreadyActive:
			result = ui.Green(result)
		case store.ResultFailed:
			result = ui.Red(result)
		case store.ResultInterrupted, store.ResultTargetPassed:
			result = ui.Yellow(result)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			a.StartedAt.Format(historyTimeFormat),
			a.Target.Format(historyTimeFormat),
			a.Trigger,
			fmt.Sprintf("%d", a.Attempts),
			result,
			a.Error,
		})
	}

	return rows
}
