package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ayusman/mudra/internal/plugin"
)

// Plugin actions used by PluginMedia.
const (
	ActionPlay     = "media-play"
	ActionPause    = "media-pause"
	ActionSeek     = "media-seek"
	ActionPosition = "media-position"
)

// ErrPluginFailed is returned when a plugin reports an unsuccessful run.
var ErrPluginFailed = errors.New("plugin reported failure")

// runner executes plugin requests; *plugin.Executor satisfies it.
type runner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

type positionData struct {
	Position float64 `json:"position"`
}

// PluginMedia drives a system media player through a plugin. The playback
// position is mirrored locally so Pointing frames do not need a plugin
// round trip to read it.
type PluginMedia struct {
	ctx    context.Context
	plugin *plugin.Plugin
	exec   runner

	mu       sync.Mutex
	position float64
}

// NewPluginMedia creates a PluginMedia. ctx bounds every plugin call.
func NewPluginMedia(ctx context.Context, p *plugin.Plugin, exec runner) *PluginMedia {
	return &PluginMedia{ctx: ctx, plugin: p, exec: exec}
}

// Play implements Media.
func (m *PluginMedia) Play() error {
	_, err := m.run(ActionPlay, nil)
	return err
}

// Pause implements Media.
func (m *PluginMedia) Pause() error {
	_, err := m.run(ActionPause, nil)
	return err
}

// Position implements Media.
func (m *PluginMedia) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// SetPosition implements Media.
func (m *PluginMedia) SetPosition(sec float64) error {
	if sec < 0 {
		sec = 0
	}
	params, err := json.Marshal(positionData{Position: sec})
	if err != nil {
		return err
	}

	resp, err := m.run(ActionSeek, params)
	if err != nil {
		return err
	}
	m.setPosition(resp, sec)
	return nil
}

// Refresh reads the player's real position if the plugin supports it.
func (m *PluginMedia) Refresh() error {
	if !m.plugin.Supports(ActionPosition) {
		return nil
	}
	resp, err := m.run(ActionPosition, nil)
	if err != nil {
		return err
	}
	m.setPosition(resp, m.Position())
	return nil
}

func (m *PluginMedia) setPosition(resp *plugin.Response, fallback float64) {
	pos := fallback
	var d positionData
	if len(resp.Data) > 0 && json.Unmarshal(resp.Data, &d) == nil {
		pos = d.Position
	}

	m.mu.Lock()
	m.position = pos
	m.mu.Unlock()
}

func (m *PluginMedia) run(action string, params json.RawMessage) (*plugin.Response, error) {
	resp, err := m.exec.Execute(m.ctx, m.plugin, &plugin.Request{
		Action: action,
		Params: params,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s: %s", ErrPluginFailed, action, resp.Error)
	}
	return resp, nil
}

var _ Media = (*PluginMedia)(nil)
