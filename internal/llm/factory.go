package llm

import (
	"go.uber.org/zap"

	"zootopia/internal/storage"
)

// Factory builds a Completer from a stored API config.
type Factory interface {
	ForConfig(c storage.APIConfig) (Completer, error)
}

type ClientFactory struct {
	logger *zap.Logger
}

func NewClientFactory(logger *zap.Logger) *ClientFactory {
	return &ClientFactory{logger: logger}
}

func (f *ClientFactory) ForConfig(c storage.APIConfig) (Completer, error) {
	return NewClient(Config{Endpoint: c.EndpointURL, Model: c.ModelName, APIKey: c.APIKey}, f.logger)
}
