// Package main provides a notification plugin for macOS.
// It shows gesture events as desktop notifications via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
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

// ShowConfig customizes the notification. Empty fields fall back to the
// gesture label and a generic title.
type ShowConfig struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Sound   string `json:"sound"`
}

const defaultTitle = "Mudra"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "show":
		if err := handleShow(req); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleShow builds the notification text and displays it.
func handleShow(req Request) error {
	var cfg ShowConfig
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	title := cfg.Title
	if title == "" {
		title = defaultTitle
	}

	message := cfg.Message
	if message == "" {
		message = req.Label
	}
	if message == "" {
		message = req.Event
	}
	if req.ObjectID != "" {
		message = fmt.Sprintf("%s: %s", message, req.ObjectID)
	}

	return runAppleScript(buildNotificationScript(title, message, cfg.Sound))
}

// buildNotificationScript generates the display notification AppleScript.
func buildNotificationScript(title, message, sound string) string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound != "" {
		script += fmt.Sprintf(` sound name "%s"`, escapeAppleScript(sound))
	}
	return script
}

// escapeAppleScript escapes quotes and backslashes for embedding in an
// AppleScript string literal.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
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
