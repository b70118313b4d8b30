// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hashchain/hashchain/app/services/node/handlers/v1/chaingrp"
	"github.com/hashchain/hashchain/foundation/blockchain/state"
	"github.com/hashchain/hashchain/foundation/events"
	"github.com/hashchain/hashchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *zap.SugaredLogger
	State       *state.State
	Evts        *events.Events
	AllowTamper bool
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	cgh := chaingrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", cgh.Events)
	app.Handle(http.MethodGet, version, "/genesis", cgh.Genesis)
	app.Handle(http.MethodGet, version, "/blocks/list", cgh.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:index", cgh.BlockByIndex)
	app.Handle(http.MethodPost, version, "/blocks/add", cgh.AddBlock)
	app.Handle(http.MethodGet, version, "/chain/validate", cgh.Validate)

	// Rewriting history is only for demonstrations and is off by default.
	if cfg.AllowTamper {
		app.Handle(http.MethodPost, version, "/blocks/tamper/:index", cgh.Tamper)
	}
}
