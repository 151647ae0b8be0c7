package vectors

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

var ErrNoVectors = errors.New("vector file is empty; add at least one test vector")

func Load(path string) ([]Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening vector file %s", path)
	}
	defer f.Close()

	vectors, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding vector file %s", path)
	}

	return vectors, nil
}

func Decode(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	err := json.NewDecoder(r).Decode(&vectors)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling vectors")
	}

	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}

	return vectors, nil
}
