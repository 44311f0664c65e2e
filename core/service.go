package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "core")

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// Registry manages all services
type Registry struct {
	services []Interface
	started  int
}

// NewRegistry creates a new core registry
func NewRegistry() *Registry {
	return &Registry{
		services: make([]Interface, 0),
	}
}

// Register adds a core to the registry
func (sr *Registry) Register(service Interface) {
	sr.services = append(sr.services, service)
}

// StartAll starts all registered services in registration order.
// When one fails, the services already started are stopped.
func (sr *Registry) StartAll(ctx context.Context) error {
	for i, service := range sr.services {
		if err := service.Start(ctx); err != nil {
			sr.started = i
			sr.StopAll()
			return fmt.Errorf("failed to start service %d (%T): %w", i, service, err)
		}
	}
	sr.started = len(sr.services)
	log.Infof("Core: Started %d services", sr.started)
	return nil
}

// StopAll stops the started services in reverse order
func (sr *Registry) StopAll() {
	for i := sr.started - 1; i >= 0; i-- {
		sr.services[i].Stop()
	}
	sr.started = 0
}
