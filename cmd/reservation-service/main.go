package main

import (
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"go-parking-lot/internal/app"
	"go-parking-lot/internal/client"
	"go-parking-lot/internal/core/cache"
	"go-parking-lot/internal/job"
	"go-parking-lot/internal/repo"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/handler"
)

func main() {
	a := app.Init("reservation-service")
	db := a.MustOpenDB()

	slotOpts := a.Client(a.Cfg.Services.Slot)
	slots := client.NewSlotClient(slotOpts)
	// a booking may mark the slot and then release it again while holding the lock
	locker := cache.NewLocker(a.Cache(), 2*slotOpts.MaxCallTime()+5*time.Second)
	reservations := service.NewReservationService(repo.NewReservationRepo(db), slots, locker, a.Log)

	expiry, err := job.NewExpiry(a.Cfg.Sweep.Spec, reservations, a.Log.Named("expiry"))
	if err != nil {
		a.Log.Fatal("bad sweep schedule", zap.String("spec", a.Cfg.Sweep.Spec), zap.Error(err))
	}
	expiry.Start()

	a.Run(a.Engine(a.DBHealth, handler.NewReservationHandler(reservations, a.JWT)), expiry.Stop)
}
