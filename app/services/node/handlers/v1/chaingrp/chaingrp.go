// Package chaingrp maintains the group of handlers for chain access.
package chaingrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashchain/hashchain/business/sys/metrics"
	"github.com/hashchain/hashchain/business/sys/validate"
	"github.com/hashchain/hashchain/business/web/errs"
	"github.com/hashchain/hashchain/foundation/blockchain/database"
	"github.com/hashchain/hashchain/foundation/blockchain/state"
	"github.com/hashchain/hashchain/foundation/events"
	"github.com/hashchain/hashchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	// On failure the upgrader has already replied to the client.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Infow("events", "traceid", v.TraceID, "status", "upgrade failed", "ERROR", err)
		return nil
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)
	defer func() {
		if n := h.Evts.Dropped(v.TraceID); n > 0 {
			h.Log.Infow("events", "traceid", v.TraceID, "dropped", n)
		}
	}()

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting to receive events and send them to the client.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			// A failed write means the client went away.
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				h.Log.Infow("events", "traceid", v.TraceID, "status", "client disconnected", "ERROR", err)
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				h.Log.Infow("events", "traceid", v.TraceID, "status", "client disconnected", "ERROR", err)
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}

// Blocks returns every block in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlocks(h.State.RetrieveBlocks()), http.StatusOK)
}

// BlockByIndex returns the block at the specified index.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.RetrieveBlock(index)
	if err != nil {
		if errors.Is(err, state.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("retrieving block[%d]: %w", index, err)
	}

	return web.Respond(ctx, w, toBlock(block), http.StatusOK)
}

// AddBlock mines a block for the provided transactions and appends it to the
// chain. The mining stops if the client goes away.
func (h Handlers) AddBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nb newBlock
	if err := web.Decode(r, &nb); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(nb); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	h.Log.Infow("add block", "traceid", v.TraceID, "trans", len(nb.Transactions))

	block, err := h.State.AddBlock(ctx, nb.Transactions)
	if err != nil {
		return fmt.Errorf("adding block: %w", err)
	}

	metrics.AddBlocks(ctx)

	return web.Respond(ctx, w, toBlock(block), http.StatusCreated)
}

// Validate checks the whole chain and reports the first failure if any.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validation{
		Valid:  true,
		Blocks: h.State.Length(),
	}

	if err := h.State.Validate(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()

		if ve := database.GetValidationError(err); ve != nil {
			index := ve.Index
			resp.Index = &index
			resp.Reason = string(ve.Reason)
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Tamper overwrites fields of a stored block without mining it again.
func (h Handlers) Tamper(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	var tb tamperBlock
	if err := web.Decode(r, &tb); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(tb); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	h.Log.Warnw("tamper block", "traceid", v.TraceID, "index", index, "rehash", tb.Rehash)

	err = h.State.Tamper(index, func(b *database.Block) {
		if tb.Transactions != nil {
			b.Transactions = tb.Transactions
		}
		if tb.PrevBlockHash != nil {
			b.PrevBlockHash = *tb.PrevBlockHash
		}
		if tb.Rehash {
			b.Hash = b.ComputeHash()
		}
	})
	if err != nil {
		if errors.Is(err, state.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("tampering block[%d]: %w", index, err)
	}

	block, err := h.State.RetrieveBlock(index)
	if err != nil {
		return fmt.Errorf("retrieving block[%d]: %w", index, err)
	}

	return web.Respond(ctx, w, toBlock(block), http.StatusOK)
}
