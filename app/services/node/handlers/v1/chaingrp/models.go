package chaingrp

import (
	"time"

	"github.com/hashchain/hashchain/foundation/blockchain/database"
)

type block struct {
	Index         uint64    `json:"index"`
	TimeStamp     uint64    `json:"timestamp"`
	Time          time.Time `json:"time"`
	Transactions  []string  `json:"transactions"`
	PrevBlockHash string    `json:"previous_hash"`
	Nonce         uint64    `json:"nonce"`
	Hash          string    `json:"hash"`
}

func toBlock(b database.Block) block {
	trans := b.Transactions
	if trans == nil {
		trans = []string{}
	}

	return block{
		Index:         b.Index,
		TimeStamp:     b.TimeStamp,
		Time:          b.Time(),
		Transactions:  trans,
		PrevBlockHash: b.PrevBlockHash,
		Nonce:         b.Nonce,
		Hash:          b.Hash,
	}
}

func toBlocks(dbBlocks []database.Block) []block {
	blocks := make([]block, len(dbBlocks))
	for i, b := range dbBlocks {
		blocks[i] = toBlock(b)
	}
	return blocks
}

type newBlock struct {
	Transactions []string `json:"transactions" validate:"required"`
}

type tamperBlock struct {
	Transactions  []string `json:"transactions"`
	PrevBlockHash *string  `json:"previous_hash" validate:"omitempty,len=64,hexadecimal"`
	Rehash        bool     `json:"rehash"`
}

type validation struct {
	Valid  bool    `json:"valid"`
	Blocks int     `json:"blocks"`
	Index  *uint64 `json:"index,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Error  string  `json:"error,omitempty"`
}
