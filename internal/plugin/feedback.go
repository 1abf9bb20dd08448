package plugin

import (
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/store"
)

// Feedback routes discrete gesture events to their bound plugins.
type Feedback struct {
	bindings *store.BindingRepository
	manager  *Manager
	executor *Executor
}

// NewFeedback creates a Feedback dispatcher over the given binding
// repository, plugin manager and executor.
func NewFeedback(bindings *store.BindingRepository, manager *Manager, executor *Executor) *Feedback {
	return &Feedback{
		bindings: bindings,
		manager:  manager,
		executor: executor,
	}
}

// Dispatch runs the plugin bound to event, if any. Unbound events and
// disabled bindings are skipped. Plugin failures are logged, never
// propagated: feedback must not break gesture control.
func (f *Feedback) Dispatch(event, label, objectID string) {
	binding, err := f.bindings.GetByEvent(event)
	if err != nil {
		logger.Error("feedback binding lookup failed",
			zap.String("event", event), zap.Error(err))
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	plug, err := f.manager.Get(binding.PluginName)
	if err != nil {
		logger.Warn("feedback binding references unknown plugin",
			zap.String("event", event),
			zap.String("plugin", binding.PluginName))
		return
	}

	req := &Request{
		Action:   binding.ActionName,
		Event:    event,
		Label:    label,
		ObjectID: objectID,
		Config:   binding.Config,
	}

	resp, err := f.executor.Execute(plug, req)
	if err != nil {
		logger.Error("feedback plugin execution failed",
			zap.String("event", event),
			zap.String("plugin", binding.PluginName),
			zap.Error(err))
		return
	}
	if !resp.Success {
		logger.Warn("feedback plugin reported failure",
			zap.String("event", event),
			zap.String("plugin", binding.PluginName),
			zap.String("error", resp.Error))
		return
	}

	logger.Debug("feedback plugin ran",
		zap.String("event", event),
		zap.String("plugin", binding.PluginName),
		zap.String("action", binding.ActionName))
}
