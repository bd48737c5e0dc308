package main

import (
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
)

// Exit statuses. Usage and input errors follow the sysexits.h numbering.
const (
	exitFailure     = 1
	exitUsage       = 64
	exitDataErr     = 65
	exitNoInput     = 66
	exitIOErr       = 74
	exitNotRepo     = 128
	exitStaleIndex  = 3
	exitNothingToDo = 2
)

var exitCodes = map[string]int{
	errs.CodeStorageIO:         exitIOErr,
	errs.CodeObjectNotFound:    exitNoInput,
	errs.CodeObjectCorrupt:     exitDataErr,
	errs.CodeIndexCorrupt:      exitDataErr,
	errs.CodeStaleStagingEntry: exitStaleIndex,
	errs.CodeEmptyMessage:      exitUsage,
	errs.CodeNothingStaged:     exitNothingToDo,
	errs.CodeInvalidInput:      exitUsage,
	errs.CodeNotRepository:     exitNotRepo,
	errs.CodeAlreadyExists:     exitFailure,
}

var hints = map[string]string{
	errs.CodeNothingStaged:     `nothing to commit (use "rgit add" to stage files)`,
	errs.CodeEmptyMessage:      `aborting commit due to empty message (use -m "<message>")`,
	errs.CodeStaleStagingEntry: `a staged file changed or vanished since it was added; re-run "rgit add" or "rgit reset" on it`,
	errs.CodeIndexCorrupt:      "the staging index is damaged; remove .rgit/index to start over",
}

// exitCode maps an error to the process exit status by its kind.
func exitCode(err error) int {
	if code, ok := exitCodes[errs.GetCode(err)]; ok {
		return code
	}
	return exitFailure
}

// userMessage renders err for the terminal, followed by a hint for the
// kinds a user can act on.
func userMessage(err error) string {
	if hint, ok := hints[errs.GetCode(err)]; ok {
		return err.Error() + "\n" + ui.Dim("hint: "+hint)
	}
	return err.Error()
}

func invalidFlag(err error) error {
	return errs.New("cli", errs.CodeInvalidInput, "parse flags", err.Error(), nil)
}

func invalidArgs(message string) error {
	return errs.InvalidInput("cli", "parse args", message)
}
