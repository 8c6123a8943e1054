package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/dynform/dynform/app"
	"github.com/dynform/dynform/config"
	"github.com/dynform/dynform/database"
	"github.com/dynform/dynform/httpx"
	"github.com/dynform/dynform/log"
	"github.com/dynform/dynform/routes"
	"github.com/dynform/dynform/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}

	st := store.New(db)
	defer st.Close()

	bearerServer := httpx.NewBearerServer(st, cfg)

	app := app.App{
		Store:        st,
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
