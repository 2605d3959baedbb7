//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/aeroxkoki/sailing-sub005/infrastructure/config"
)

// InitializeContainer builds the full container from a configuration
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
