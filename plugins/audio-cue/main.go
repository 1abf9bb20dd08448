// Package main provides an audio cue plugin for macOS.
// It plays short sounds on gesture events via afplay.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action   string          `json:"action"`
	Event    string          `json:"event"`
	Label    string          `json:"label"`
	ObjectID string          `json:"objectId"`
	Config   json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PlayConfig selects which sound to play. Sound names resolve against
// the system sound library; File takes an absolute path and wins over
// Sound when both are set.
type PlayConfig struct {
	Sound string `json:"sound"`
	File  string `json:"file"`
}

const systemSoundDir = "/System/Library/Sounds"

const defaultSound = "Pop"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "play":
		if err := handlePlay(req.Config); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handlePlay resolves the configured sound and plays it.
func handlePlay(config json.RawMessage) error {
	var cfg PlayConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	path, err := resolveSound(cfg)
	if err != nil {
		return err
	}

	cmd := exec.Command("afplay", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// resolveSound returns the path of the sound file to play.
func resolveSound(cfg PlayConfig) (string, error) {
	if cfg.File != "" {
		if _, err := os.Stat(cfg.File); err != nil {
			return "", fmt.Errorf("sound file not found: %s", cfg.File)
		}
		return cfg.File, nil
	}

	name := cfg.Sound
	if name == "" {
		name = defaultSound
	}

	path := filepath.Join(systemSoundDir, name+".aiff")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("unknown system sound: %s", name)
	}
	return path, nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
