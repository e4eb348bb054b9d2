// Command keyboard is an action plugin that sends a keystroke, optionally
// with modifiers, when a combo is recognized. It uses AppleScript on macOS
// and xdotool on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/spellcast/internal/plugin"
)

// keystroke is the action config bound to a combo.
type keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// appleModifiers maps modifier names to AppleScript equivalents.
var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// xdoModifiers maps modifier names to xdotool key names.
var xdoModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	if err := plugin.Serve(os.Stdin, os.Stdout, handle); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func handle(req *plugin.Request) (json.RawMessage, error) {
	switch req.Action {
	case "keystroke", "shortcut":
	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}

	var k keystroke
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &k); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if k.Key == "" {
		return nil, errors.New("key is required")
	}

	name, args, err := command(runtime.GOOS, k)
	if err != nil {
		return nil, err
	}

	if output, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, output)
	}
	return nil, nil
}

// command builds the platform command that sends k.
func command(goos string, k keystroke) (string, []string, error) {
	switch goos {
	case "darwin":
		return "osascript", []string{"-e", appleScript(k)}, nil
	case "linux":
		return "xdotool", []string{"key", xdoChord(k)}, nil
	}
	return "", nil, fmt.Errorf("keyboard plugin does not support %s", goos)
}

func appleScript(k keystroke) string {
	var mods []string
	for _, m := range k.Modifiers {
		if am, ok := appleModifiers[strings.ToLower(m)]; ok {
			mods = append(mods, am)
		}
	}

	script := fmt.Sprintf(`tell application "System Events" to keystroke %q`, k.Key)
	if len(mods) > 0 {
		script += " using {" + strings.Join(mods, ", ") + "}"
	}
	return script
}

func xdoChord(k keystroke) string {
	var keys []string
	for _, m := range k.Modifiers {
		if xm, ok := xdoModifiers[strings.ToLower(m)]; ok {
			keys = append(keys, xm)
		}
	}
	return strings.Join(append(keys, k.Key), "+")
}
