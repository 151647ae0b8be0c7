package vectors

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/iseefortune/go-verifier/verifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Vector struct {
	Name                  string `json:"name"`
	RngVersion            string `json:"rng_version"`
	Slot                  Slot   `json:"slot"`
	Blockhash             string `json:"blockhash"`
	ExpectedWinningNumber uint64 `json:"expected_winning_number"`
}

// Slot accepts either a JSON number or a decimal string, since slots above
// 2^53 do not survive a round trip through JavaScript tooling as numbers.
type Slot uint64

func (s *Slot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return errors.Wrap(err, "decoding slot string")
		}
		data = []byte(text)
	}

	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "parsing slot %s", data)
	}
	*s = Slot(v)

	return nil
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(s), 10)), nil
}

type Outcome struct {
	Name   string
	Result verifier.Result
	Err    error
}

func (o Outcome) Passed() bool {
	return o.Err == nil
}

func newMismatchError(name string, expected, got uint64) *MismatchError {
	return &MismatchError{Name: name, Expected: expected, Got: got}
}

type MismatchError struct {
	Name     string
	Expected uint64
	Got      uint64
}

func (e *MismatchError) Error() string {
	return errors.Errorf("vector '%s' mismatch: expected winning number %d, got %d", e.Name, e.Expected, e.Got).Error()
}
