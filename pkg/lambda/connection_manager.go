package lambda

import (
	"sync"
	"time"

	"table-ops-api/internal/config"
	"table-ops-api/pkg/server"
)

// ConnectionManager caches the service container across warm Lambda
// invocations so the AWS client (or local database handle) survives
// between requests.
type ConnectionManager struct {
	container *server.Container
	initErr   error
	lastUsed  time.Time
	mu        sync.RWMutex
	initOnce  sync.Once
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// GetContainer returns the service container, initializing it on the
// first (cold start) invocation.
func (cm *ConnectionManager) GetContainer() (*server.Container, error) {
	cm.initOnce.Do(func() {
		cfg, err := config.GetOptimizedConfig()
		if err != nil {
			cm.initErr = err
			return
		}

		container, err := server.NewContainer(cfg)
		if err != nil {
			cm.initErr = err
			return
		}

		cm.mu.Lock()
		cm.container = container
		cm.mu.Unlock()
	})
	if cm.initErr != nil {
		return nil, cm.initErr
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
	return cm.container, nil
}
