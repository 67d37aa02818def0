package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/huddleup-app/huddleup-api/api/handlers"
	"github.com/huddleup-app/huddleup-api/api/scheduler"
	"github.com/huddleup-app/huddleup-api/config"
	"github.com/huddleup-app/huddleup-api/store"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	a.Initialize() //initialize store, hub and router

	// background job that keeps the derived "past" flag fresh for clients
	sched := scheduler.New(store.NewActivityStore(a.Store), a.Hub)
	sched.Start()
	defer sched.Stop()

	zap.S().Infow("huddleup-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
