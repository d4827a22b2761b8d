//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/config"
	"github.com/google/wire"
)

func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(providerSet)
	return new(App), nil, nil
}
