package verifier

// Output is the JSON document printed by the command line verifier.
type Output struct {
	RngVersion    Version      `json:"rng_version"`
	Slot          uint64       `json:"slot"`
	Blockhash     string       `json:"blockhash"`
	WinningNumber uint64       `json:"winning_number"`
	Debug         *DebugOutput `json:"debug,omitempty"`
}

type DebugOutput struct {
	DigestSha256 string `json:"digest_sha256"`
	DigestSumU64 uint64 `json:"digest_sum_u64"`
}

func NewOutput(res Result, debug bool) Output {
	out := Output{
		RngVersion:    res.Version,
		Slot:          res.Slot,
		Blockhash:     res.Blockhash,
		WinningNumber: res.WinningNumber,
	}

	if debug {
		out.Debug = &DebugOutput{
			DigestSha256: res.Debug.DigestHex,
			DigestSumU64: res.Debug.DigestSum,
		}
	}

	return out
}
