package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashchain/hashchain/app/services/node/handlers"
	"github.com/hashchain/hashchain/business/web/errs"
	"github.com/hashchain/hashchain/foundation/blockchain/genesis"
	"github.com/hashchain/hashchain/foundation/blockchain/state"
	"github.com/hashchain/hashchain/foundation/events"
	"go.uber.org/zap/zaptest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type block struct {
	Index         uint64   `json:"index"`
	Transactions  []string `json:"transactions"`
	PrevBlockHash string   `json:"previous_hash"`
	Hash          string   `json:"hash"`
}

type validation struct {
	Valid  bool    `json:"valid"`
	Blocks int     `json:"blocks"`
	Index  *uint64 `json:"index"`
	Reason string  `json:"reason"`
}

// ChainTests holds methods for each chain subtest. This type allows
// passing dependencies for tests while still providing a convenient syntax
// when subtests are registered.
type ChainTests struct {
	app      http.Handler
	debug    http.Handler
	evts     *events.Events
	shutdown chan os.Signal
}

func newChainTests(t *testing.T, allowTamper bool) *ChainTests {
	log := zaptest.NewLogger(t).Sugar()

	gen := genesis.Default()
	gen.Difficulty = 1

	st, err := state.New(state.Config{Genesis: gen})
	if err != nil {
		t.Fatalf("Should be able to construct the chain: %s", err)
	}

	shutdown := make(chan os.Signal, 1)
	evts := events.New()

	return &ChainTests{
		app: handlers.PublicMux(handlers.MuxConfig{
			Shutdown:    shutdown,
			Log:         log,
			State:       st,
			Evts:        evts,
			AllowTamper: allowTamper,
		}),
		debug:    handlers.DebugMux("test", log, st),
		evts:     evts,
		shutdown: shutdown,
	}
}

func (ct *ChainTests) do(method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	ct.app.ServeHTTP(w, r)
	return w
}

// =============================================================================

func Test_Chain(t *testing.T) {
	ct := newChainTests(t, true)

	t.Run("addBlock", ct.addBlock)
	t.Run("addBlockInvalid", ct.addBlockInvalid)
	t.Run("blockByIndex", ct.blockByIndex)
	t.Run("tamper", ct.tamper)
	t.Run("debug", ct.debugChecks)
}

func Test_TamperDisabled(t *testing.T) {
	ct := newChainTests(t, false)

	w := ct.do(http.MethodPost, "/v1/blocks/tamper/0", `{"rehash": true}`)
	if w.Code == http.StatusOK {
		t.Fatalf("Should not be able to tamper when the route is disabled.")
	}
}

func Test_EventsDisconnect(t *testing.T) {
	ct := newChainTests(t, false)

	srv := httptest.NewServer(ct.app)
	defer srv.Close()

	t.Log("Given the need to stream events to a client that goes away.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the client closes its connection.", testID)
		{
			url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events"
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to connect to the events endpoint : %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to connect to the events endpoint.", success, testID)

			if !waitFor(func() bool { return ct.evts.Count() == 1 }) {
				t.Fatalf("\t%s\tTest %d:\tShould register the client for events.", failed, testID)
			}

			conn.Close()

			gone := waitFor(func() bool {
				ct.evts.Send("state: AddBlock: block added")
				return ct.evts.Count() == 0
			})
			if !gone {
				t.Fatalf("\t%s\tTest %d:\tShould release the client once writes fail.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould release the client once writes fail.", success, testID)

			if len(ct.shutdown) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not signal a shutdown for a client disconnect.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not signal a shutdown for a client disconnect.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen the client does not ask for a websocket.", testID)
		{
			w := ct.do(http.MethodGet, "/v1/events", "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 400 for the response : %v", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a status code of 400 for the response.", success, testID)

			if len(ct.shutdown) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not signal a shutdown for a failed upgrade.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not signal a shutdown for a failed upgrade.", success, testID)
		}
	}
}

// waitFor polls the condition until it holds or five seconds pass.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func (ct *ChainTests) addBlock(t *testing.T) {
	t.Log("Given the need to append blocks through the API.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen posting three sets of transactions.", testID)
		{
			for _, tx := range []string{"A->B:1", "B->C:2", "C->D:3"} {
				w := ct.do(http.MethodPost, "/v1/blocks/add", `{"transactions": ["`+tx+`"]}`)
				if w.Code != http.StatusCreated {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 201 for the response : %v", failed, testID, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of 201 for the response.", success, testID)

				var got block
				if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
				}

				if !strings.HasPrefix(got.Hash, "0") || got.Transactions[0] != tx {
					t.Fatalf("\t%s\tTest %d:\tShould get back the mined block : %+v", failed, testID, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the mined block.", success, testID)
			}

			w := ct.do(http.MethodGet, "/v1/blocks/list", "")

			var blocks []block
			if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if len(blocks) != 4 {
				t.Fatalf("\t%s\tTest %d:\tShould list four blocks, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould list four blocks.", success, testID)

			for i := 1; i < len(blocks); i++ {
				if blocks[i].PrevBlockHash != blocks[i-1].Hash {
					t.Fatalf("\t%s\tTest %d:\tShould link block %d to its parent.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould link every block to its parent.", success, testID)

			w = ct.do(http.MethodGet, "/v1/chain/validate", "")

			var v validation
			if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response : %v", failed, testID, err)
			}

			if !v.Valid || v.Blocks != 4 {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain : %+v", failed, testID, v)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}
	}
}

func (ct *ChainTests) addBlockInvalid(t *testing.T) {
	type table struct {
		name  string
		body  string
		field string
	}

	tt := []table{
		{name: "missing", body: `{}`, field: "transactions"},
		{name: "unknown", body: `{"trans": ["A->B:1"]}`},
		{name: "malformed", body: `{"transactions": [`},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			w := ct.do(http.MethodPost, "/v1/blocks/add", tst.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Should receive a status code of 400 for the response : %v", w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Should be able to unmarshal the response : %v", err)
			}

			if tst.field != "" {
				if _, exists := resp.Fields[tst.field]; !exists {
					t.Fatalf("Should report the %s field : %+v", tst.field, resp)
				}
			}
		}

		t.Run(tst.name, f)
	}
}

func (ct *ChainTests) blockByIndex(t *testing.T) {
	type table struct {
		path   string
		status int
	}

	tt := []table{
		{path: "/v1/blocks/list/0", status: http.StatusOK},
		{path: "/v1/blocks/list/3", status: http.StatusOK},
		{path: "/v1/blocks/list/50", status: http.StatusNotFound},
		{path: "/v1/blocks/list/abc", status: http.StatusBadRequest},
	}

	for _, tst := range tt {
		w := ct.do(http.MethodGet, tst.path, "")
		if w.Code != tst.status {
			t.Fatalf("Should receive a status code of %d for %s : %v", tst.status, tst.path, w.Code)
		}
	}
}

func (ct *ChainTests) tamper(t *testing.T) {
	w := ct.do(http.MethodPost, "/v1/blocks/tamper/1", `{"transactions": ["Hacked: A->Hacker:1000"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Should be able to tamper with a block : %v", w.Code)
	}

	w = ct.do(http.MethodPost, "/v1/blocks/tamper/2", `{"previous_hash": "not-a-hash"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Should reject a malformed previous hash : %v", w.Code)
	}

	w = ct.do(http.MethodGet, "/v1/chain/validate", "")

	var v validation
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Should be able to unmarshal the response : %v", err)
	}

	if v.Valid || v.Index == nil || *v.Index != 1 || v.Reason != "digest mismatch" {
		t.Fatalf("Should detect the tampered block : %+v", v)
	}
}

func (ct *ChainTests) debugChecks(t *testing.T) {
	type table struct {
		path   string
		status int
	}

	// The chain was tampered with by the previous subtest.
	tt := []table{
		{path: "/debug/liveness", status: http.StatusOK},
		{path: "/debug/readiness", status: http.StatusInternalServerError},
	}

	for _, tst := range tt {
		r := httptest.NewRequest(http.MethodGet, tst.path, nil)
		w := httptest.NewRecorder()
		ct.debug.ServeHTTP(w, r)

		if w.Code != tst.status {
			t.Fatalf("Should receive a status code of %d for %s : %v", tst.status, tst.path, w.Code)
		}
	}
}
