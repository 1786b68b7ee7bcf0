package main

import (
	_ "go.uber.org/automaxprocs"

	"go-parking-lot/internal/app"
	"go-parking-lot/internal/client"
	"go-parking-lot/internal/repo"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/handler"
)

func main() {
	a := app.Init("vehicle-log-service")
	db := a.MustOpenDB()

	slots := client.NewSlotClient(a.Client(a.Cfg.Services.Slot))
	logs := service.NewVehicleLogService(repo.NewVehicleLogRepo(db), slots, a.Log)

	a.Run(a.Engine(a.DBHealth, handler.NewVehicleLogHandler(logs, a.JWT)))
}
