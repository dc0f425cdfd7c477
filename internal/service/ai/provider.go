package ai

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/config"
	"github.com/wallace-21/BirdNest/internal/domain/models"
)

const apiVersion = "1.0.0"

// Provider owns the relay lifecycle: the agent is constructed on first
// use and reused for every later request; it is never reinitialized
// automatically. Construction failure is a recoverable error returned
// to each caller, not a crash.
type Provider struct {
	cfg    config.AgentConfig
	logger *zap.Logger

	once  sync.Once
	agent *Agent
	err   error
}

// NewProvider wires a lazy agent provider.
func NewProvider(cfg config.AgentConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, logger: logger}
}

// NewProviderWithAgent wires a provider around an already constructed
// agent, bypassing lazy construction.
func NewProviderWithAgent(agent *Agent, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{logger: logger}
	p.once.Do(func() { p.agent = agent })
	return p
}

// Agent returns the shared agent instance, constructing it on first
// call. A failed construction sticks for the process lifetime.
func (p *Provider) Agent() (*Agent, error) {
	p.once.Do(func() {
		p.agent, p.err = New(p.cfg, p.logger)
		if p.err != nil {
			p.logger.Error("failed to initialize ai agent", zap.Error(p.err))
		}
	})
	return p.agent, p.err
}

// Health reports relay availability. It never fails; an uninitializable
// agent maps to an unhealthy status.
func (p *Provider) Health() models.HealthResponse {
	agent, err := p.Agent()
	available := err == nil && agent.Healthy()

	status := "healthy"
	if !available {
		status = "unhealthy"
	}

	return models.HealthResponse{
		Status:           status,
		Timestamp:        time.Now().UTC(),
		AIAgentAvailable: available,
		Version:          apiVersion,
	}
}
