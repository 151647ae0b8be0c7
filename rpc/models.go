package rpc

import (
	"github.com/iseefortune/go-verifier/store"
	"github.com/iseefortune/go-verifier/verifier"
)

const kindInvalidRequest = "invalid_request"

type VerifyRequest struct {
	Slot      string `form:"slot"`
	Blockhash string `form:"blockhash"`
	Debug     bool   `form:"debug"`
}

// VerifyResponse carries the slot as decimal text so values above 2^53 reach
// browser clients intact.
type VerifyResponse struct {
	RngVersion    verifier.Version `json:"rng_version"`
	Slot          string           `json:"slot"`
	Blockhash     string           `json:"blockhash"`
	Range         uint64           `json:"range"`
	WinningNumber uint64           `json:"winning_number"`
	Debug         *verifier.Debug  `json:"debug,omitempty"`
}

type AuditsResponse struct {
	Slot    string              `json:"slot"`
	Records []store.AuditRecord `json:"records"`
}

type HealthResponse struct {
	Status   string             `json:"status"`
	Versions []verifier.Version `json:"rng_versions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
