package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/hashchain/hashchain/business/web/errs"
	"github.com/hashchain/hashchain/business/web/mid"
	"github.com/hashchain/hashchain/foundation/web"
	"go.uber.org/zap/zaptest"
)

func Test_ErrorsAndPanics(t *testing.T) {
	type table struct {
		name    string
		handler web.Handler
		status  int
		message string
	}

	tt := []table{
		{
			name: "trusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errs.NewTrusted(errors.New("block not found"), http.StatusNotFound)
			},
			status:  http.StatusNotFound,
			message: "block not found",
		},
		{
			name: "untrusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errors.New("disk on fire")
			},
			status:  http.StatusInternalServerError,
			message: http.StatusText(http.StatusInternalServerError),
		},
		{
			name: "panic",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic("boom")
			},
			status:  http.StatusInternalServerError,
			message: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			log := zaptest.NewLogger(t).Sugar()

			shutdown := make(chan os.Signal, 1)
			app := web.NewApp(shutdown, mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())
			app.Handle(http.MethodGet, "v1", "/test", tst.handler, mid.Cors("*"))

			r := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if w.Code != tst.status {
				t.Fatalf("Should get status %d, got %d.", tst.status, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Should be able to decode the response: %s", err)
			}

			if resp.Error != tst.message {
				t.Fatalf("Should get message %q, got %q.", tst.message, resp.Error)
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("Should set the CORS headers.")
			}

			if len(shutdown) != 0 {
				t.Fatalf("Should not signal a shutdown for a handled error.")
			}
		}

		t.Run(tst.name, f)
	}
}
