package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

// Navigation is one recorded screen change.
type Navigation struct {
	Route  string            `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// LogNavigator logs screen changes and remembers the latest one, which
// GET /navigation serves to the client.
type LogNavigator struct {
	mu   sync.RWMutex
	last *Navigation
}

var _ domain.Navigator = (*LogNavigator)(nil)

func NewLogNavigator() *LogNavigator {
	return &LogNavigator{}
}

func (n *LogNavigator) Navigate(_ context.Context, route string, params map[string]string) {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}

	n.mu.Lock()
	n.last = &Navigation{Route: route, Params: copied}
	n.mu.Unlock()

	fields := logrus.Fields{"route": route}
	for k, v := range copied {
		fields[k] = v
	}
	logger.WithFields(fields).Info("Navigate")
}

// Last returns the most recent navigation, if any.
func (n *LogNavigator) Last() (Navigation, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.last == nil {
		return Navigation{}, false
	}
	return *n.last, true
}
