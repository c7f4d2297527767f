// Package main is the system-control plugin. It drives the macOS Music
// player through AppleScript so gestures can control playback outside the
// browser page.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Request mirrors plugin.Request.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response mirrors plugin.Response.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type seekParams struct {
	Position float64 `json:"position"`
}

type positionData struct {
	Position float64 `json:"position"`
}

type actionHandler func(params json.RawMessage) (any, error)

var actionHandlers = map[string]actionHandler{
	"media-play":     mediaPlay,
	"media-pause":    mediaPause,
	"media-seek":     mediaSeek,
	"media-position": mediaPosition,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	data, err := handler(req.Params)
	if err != nil {
		writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
		return
	}

	resp := Response{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeResponse(Response{Error: fmt.Sprintf("encode data: %v", err)})
			return
		}
		resp.Data = raw
	}
	writeResponse(resp)
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

func runAppleScript(script string) (string, error) {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

func mediaPlay(json.RawMessage) (any, error) {
	_, err := runAppleScript(`tell application "Music" to play`)
	return nil, err
}

func mediaPause(json.RawMessage) (any, error) {
	_, err := runAppleScript(`tell application "Music" to pause`)
	return nil, err
}

// mediaSeek moves to an absolute position in seconds. Negative positions
// clamp to the start of the track.
func mediaSeek(params json.RawMessage) (any, error) {
	var p seekParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if p.Position < 0 {
		p.Position = 0
	}

	script := fmt.Sprintf(`tell application "Music" to set player position to %s`,
		strconv.FormatFloat(p.Position, 'f', 3, 64))
	if _, err := runAppleScript(script); err != nil {
		return nil, err
	}
	return positionData{Position: p.Position}, nil
}

func mediaPosition(json.RawMessage) (any, error) {
	out, err := runAppleScript(`tell application "Music" to get player position`)
	if err != nil {
		return nil, err
	}
	pos, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return nil, fmt.Errorf("parse position %q: %w", out, err)
	}
	return positionData{Position: pos}, nil
}
