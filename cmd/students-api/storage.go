package main

import (
	"fmt"

	"github.com/aanand-mishra/students-advice-api/internal/config"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/storage/memory"
	"github.com/aanand-mishra/students-advice-api/internal/storage/redis"
	"github.com/aanand-mishra/students-advice-api/internal/storage/sqlite"
)

// openStorage returns the backend named by cfg.Driver.
func openStorage(cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.New(), nil
	case config.DriverSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := redis.New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
