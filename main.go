package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ardanlabs/conf"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/iseefortune/go-verifier/verifier"
)

const prefix = "VERIFIER"

// policyModulus is the range of the published winning numbers. It is fixed
// for this binary and not exposed as an option.
const policyModulus = 10

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var cfg struct {
		Slot      string
		Blockhash string
		Debug     bool `conf:"default:false"`
	}

	if err := conf.Parse(args, prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Fprintln(stdout, usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Fprintln(stdout, version)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	slotText := strings.TrimSpace(cfg.Slot)
	if slotText == "" {
		return errors.New("missing --slot <u64>")
	}
	if cfg.Blockhash == "" {
		return errors.New("missing --blockhash <base58>")
	}

	slot, err := strconv.ParseUint(slotText, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid --slot %q", slotText)
	}

	res, err := verifier.Verify(slot, cfg.Blockhash, policyModulus)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(verifier.NewOutput(res, cfg.Debug), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling output")
	}
	fmt.Fprintln(stdout, string(out))

	return nil
}
