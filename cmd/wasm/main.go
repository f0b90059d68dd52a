//go:build js && wasm

// Command wasm exposes the racing engine to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runReplay(jsonl) -> jsonl
//
// The input is newline-delimited server messages and the output the
// newline-delimited commands, the same contract as the replay command.
package main

import (
	"syscall/js"

	"github.com/cxd309/racebot/internal/engine"
)

func main() {
	js.Global().Set("runReplay", js.FuncOf(runReplay))
	select {} // keep the WASM module alive until the page is closed
}

func runReplay(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.ReplayJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
