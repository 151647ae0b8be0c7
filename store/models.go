package store

import (
	"time"

	"github.com/iseefortune/go-verifier/verifier"
)

// AuditRecord is one persisted verification, with enough intermediate values
// to re-check it without the original request.
type AuditRecord struct {
	Source        string `json:"source"`
	RngVersion    string `json:"rng_version"`
	Slot          uint64 `json:"slot"`
	Blockhash     string `json:"blockhash"`
	WinningNumber uint64 `json:"winning_number"`
	DigestSha256  string `json:"digest_sha256"`
	DigestSumU64  uint64 `json:"digest_sum_u64"`
	Modulus       uint64 `json:"modulus"`
	VerifiedAt    int64  `json:"verified_at"`
}

func resultToRecord(source string, res verifier.Result, verifiedAt time.Time) AuditRecord {
	return AuditRecord{
		Source:        source,
		RngVersion:    string(res.Version),
		Slot:          res.Slot,
		Blockhash:     res.Blockhash,
		WinningNumber: res.WinningNumber,
		DigestSha256:  res.Debug.DigestHex,
		DigestSumU64:  res.Debug.DigestSum,
		Modulus:       res.Debug.Modulus,
		VerifiedAt:    verifiedAt.UnixMilli(),
	}
}

type RunSummary struct {
	Path       string `json:"path"`
	Total      int    `json:"total"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	FinishedAt int64  `json:"finished_at"`
}
