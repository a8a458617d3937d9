package config

import (
	"path/filepath"
	"strings"
	"sync"
)

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// NewDriver picks the driver for filePath by its extension.
func NewDriver(filePath string) Driver {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return NewJSON(filePath)
	default:
		return NewYAML(filePath)
	}
}

func NewStore(driver Driver) (*Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return nil, err
		}
	}

	return &Store{
		driver: driver,
	}, nil
}

// Open returns a store for the config file at filePath, creating it with
// defaults when missing.
func Open(filePath string) (*Store, error) {
	return NewStore(NewDriver(filePath))
}

type Store struct {
	mu     sync.Mutex
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.driver.Read()
}

func (p *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg, err := p.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return p.driver.Write(cfg)
}
