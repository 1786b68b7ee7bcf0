package main

import (
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"go-parking-lot/internal/app"
	"go-parking-lot/internal/gateway"
)

func main() {
	a := app.Init("gateway")

	gw, err := gateway.New(gateway.Routes(a.Cfg.Services), a.Log.Named("proxy"))
	if err != nil {
		a.Log.Fatal("gateway routes", zap.Error(err))
	}

	a.Run(a.Engine(gw.Health, gw))
}
