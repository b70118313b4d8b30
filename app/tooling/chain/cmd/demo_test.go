package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func Test_RunDemo(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	if err := runDemo(context.Background(), &buf, 1, 2); err != nil {
		t.Fatalf("Should be able to run the demo: %s", err)
	}

	out := buf.String()

	for _, exp := range []string{
		"Block #0",
		"Block #3",
		"Charlie sends 0.2 BTC to David",
		"Is Blockchain Valid? true",
		"Is Blockchain Valid After Tampering? false",
	} {
		if !strings.Contains(out, exp) {
			t.Fatalf("Should print %q in:\n%s", exp, out)
		}
	}
}
