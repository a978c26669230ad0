package gorbie

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// EditorCommandEnv names the command template used to open a card's source
// location in an editor. The template may contain {{file}}, {{line}}, and
// {{column}} placeholders, e.g.:
//
//	GORBIE_EDITOR='code --goto {{file}}:{{line}}:{{column}}'
//
// The value is a pass-through: the runtime only expands and spawns it.
const EditorCommandEnv = "GORBIE_EDITOR"

// sourceLocation records where in the notebook definition a card was
// declared.
type sourceLocation struct {
	file string
	line int
}

// callerLocation captures the caller's source position skip frames up.
func callerLocation(skip int) sourceLocation {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return sourceLocation{}
	}
	return sourceLocation{file: file, line: line}
}

// ExpandEditorCommand substitutes {{file}}, {{line}}, and {{column}} in an
// editor command template.
func ExpandEditorCommand(tmpl, file string, line, column int) string {
	out := strings.ReplaceAll(tmpl, "{{file}}", file)
	out = strings.ReplaceAll(out, "{{line}}", strconv.Itoa(line))
	out = strings.ReplaceAll(out, "{{column}}", strconv.Itoa(column))
	return out
}

// openEditor spawns the configured editor at the card's declaration site.
// Card chrome consumes this; the engine only passes the template through.
func (a *App) openEditor(id CardID) {
	tmpl := os.Getenv(EditorCommandEnv)
	if tmpl == "" {
		return
	}
	var src sourceLocation
	for _, card := range a.nb.Cards() {
		if card.ID == id {
			src = card.source
			break
		}
	}
	if src.file == "" {
		return
	}

	cmdline := ExpandEditorCommand(tmpl, src.file, src.line, 1)
	parts := strings.Fields(cmdline)
	if len(parts) == 0 {
		return
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Start(); err != nil {
		a.nb.log.Warn("editor command failed", zap.Error(err))
		return
	}
	go func() { _ = cmd.Wait() }()
}
