package main

import (
	"time"

	_ "go.uber.org/automaxprocs"

	"go-parking-lot/internal/app"
	"go-parking-lot/internal/repo"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/handler"
)

func main() {
	a := app.Init("slot-service")
	db := a.MustOpenDB()

	ttl := time.Duration(a.Cfg.Cache.SlotTTLSec) * time.Second
	slots := service.NewSlotService(repo.NewSlotRepo(db), a.Cache(), ttl, a.Log)

	a.Run(a.Engine(a.DBHealth, handler.NewSlotHandler(slots, a.JWT)))
}
