package main

import (
	"github.com/pterm/pterm"

	"game-sl/constants"
	"game-sl/restore"
)

// termUI implements the services' UIProvider on top of pterm.
type termUI struct{}

func (termUI) LogInfof(format string, args ...interface{}) {
	pterm.Debug.Printfln(format, args...)
}

func (termUI) LogErrorf(format string, args ...interface{}) {
	pterm.Debug.Printfln("error: "+format, args...)
}

func (termUI) EventsEmit(eventName string, args ...interface{}) {
	if eventName != constants.EventRestoreState || len(args) == 0 {
		return
	}
	st, ok := args[0].(restore.State)
	if !ok || !st.Open {
		return
	}
	if st.Result == nil {
		pterm.Info.Printfln("Restoring %s from %s (%s)", st.Game, st.Backup, st.AttemptID)
	}
}
