// Package plugin runs external feedback programs in response to gesture
// events. A plugin is a directory containing a plugin.json manifest and an
// executable that speaks JSON over stdin/stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and the actions it offers.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is the payload written to a plugin's stdin. Event and Label
// describe the gesture that triggered the dispatch; ObjectID names the
// focused scene object when one is involved.
type Request struct {
	Action   string          `json:"action"`
	Event    string          `json:"event"`
	Label    string          `json:"label,omitempty"`
	ObjectID string          `json:"objectId,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Response is what a plugin prints to stdout after handling a request.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location on disk.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
