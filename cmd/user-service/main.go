package main

import (
	_ "go.uber.org/automaxprocs"

	"go-parking-lot/internal/app"
	"go-parking-lot/internal/repo"
	"go-parking-lot/internal/service"
	"go-parking-lot/internal/transport/http/handler"
)

func main() {
	a := app.Init("user-service")
	db := a.MustOpenDB()

	users := service.NewUserService(repo.NewUserRepo(db), a.JWT, a.Log)

	a.Run(a.Engine(a.DBHealth, handler.NewUserHandler(users, a.JWT)))
}
