package base

import (
	"context"
	"fmt"
	"sync"
)

// PortManager hands out ports from a fixed range to concurrent browser sessions
type PortManager struct {
	basePort  int
	portRange int
	inUse     map[int]bool
	mutex     sync.Mutex
	freed     chan struct{}
}

// NewPortManager creates a new port manager with the specified base port and range
func NewPortManager(basePort, portRange int) *PortManager {
	return &PortManager{
		basePort:  basePort,
		portRange: portRange,
		inUse:     make(map[int]bool, portRange),
		freed:     make(chan struct{}, portRange),
	}
}

// GetPort allocates a free port without waiting
func (pm *PortManager) GetPort() (int, error) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for i := 0; i < pm.portRange; i++ {
		port := pm.basePort + i
		if !pm.inUse[port] {
			pm.inUse[port] = true
			return port, nil
		}
	}

	return 0, fmt.Errorf("no available ports in range %d-%d", pm.basePort, pm.basePort+pm.portRange-1)
}

// Acquire waits until a port is free or ctx is done
func (pm *PortManager) Acquire(ctx context.Context) (int, error) {
	for {
		if port, err := pm.GetPort(); err == nil {
			return port, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-pm.freed:
		}
	}
}

// Release returns a port to the pool
func (pm *PortManager) Release(port int) {
	pm.mutex.Lock()
	delete(pm.inUse, port)
	pm.mutex.Unlock()

	select {
	case pm.freed <- struct{}{}:
	default:
	}
}
