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
	a := app.Init("billing-service")
	db := a.MustOpenDB()

	// Billing reads other users' records, so it always calls as itself.
	asService := func(url string) client.Options {
		o := a.Client(url)
		o.ServiceTokenOnly = true
		return o
	}
	s := a.Cfg.Services
	billing := service.NewBillingService(
		repo.NewInvoiceRepo(db),
		client.NewReservationClient(asService(s.Reservation)),
		client.NewVehicleLogClient(asService(s.VehicleLog)),
		client.NewSlotClient(asService(s.Slot)),
		a.Cfg.Billing.Rates,
		a.Log,
	)

	a.Run(a.Engine(a.DBHealth, handler.NewBillingHandler(billing, a.JWT)))
}
