package storage

import (
	"fmt"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/storage/badger"
)

// NewPortfolioStore creates the PortfolioStore selected by config.
func NewPortfolioStore(logger *common.Logger, config *common.Config) (interfaces.PortfolioStore, error) {
	switch config.Storage.Backend {
	case "file":
		return NewFileStore(logger, config.Storage.Path, config.Storage.Versions)
	case "badger":
		return badger.NewStore(logger, config.Storage.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}
