package app

import (
	"github.com/go-chi/oauth"

	"github.com/dynform/dynform/config"
	"github.com/dynform/dynform/store"
)

type App struct {
	*store.Store
	*oauth.BearerServer
	config.Config
}
