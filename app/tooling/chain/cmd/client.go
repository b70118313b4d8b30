package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type block struct {
	Index         uint64   `json:"index"`
	TimeStamp     uint64   `json:"timestamp"`
	Transactions  []string `json:"transactions"`
	PrevBlockHash string   `json:"previous_hash"`
	Nonce         uint64   `json:"nonce"`
	Hash          string   `json:"hash"`
}

type validation struct {
	Valid  bool    `json:"valid"`
	Blocks int     `json:"blocks"`
	Index  *uint64 `json:"index"`
	Reason string  `json:"reason"`
	Error  string  `json:"error"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// call performs the request against the node and decodes the response
// into the provided value.
func call(method string, path string, body any, val any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, endpoint(path), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("status %d: %s %v", resp.StatusCode, er.Error, er.Fields)
	}

	return json.NewDecoder(resp.Body).Decode(val)
}
