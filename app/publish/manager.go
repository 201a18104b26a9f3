package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Manager fans one message out to all configured publishers. A send
// counts as successful when at least one back-end accepted it; the
// failures of the others are logged but do not consume a retry attempt.
type Manager struct {
	publishers []Publisher
}

func NewManager(publishers ...Publisher) *Manager {
	return &Manager{publishers: publishers}
}

// HasPublishers reports whether any back-end is configured.
func (m *Manager) HasPublishers() bool {
	return len(m.publishers) > 0
}

// Names lists the configured back-ends.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.publishers))
	for _, p := range m.publishers {
		names = append(names, p.Name())
	}
	return names
}

// Send delivers the message to every publisher and returns nil when at
// least one succeeded, otherwise the joined errors.
func (m *Manager) Send(ctx context.Context, msg Message) error {
	if len(m.publishers) == 0 {
		return fmt.Errorf("no publishers configured")
	}

	var errs []error
	succeeded := 0
	for _, p := range m.publishers {
		if err := p.Send(ctx, msg); err != nil {
			slog.Warn("Publisher failed", "publisher", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return errors.Join(errs...)
	}
	return nil
}
