// Command lrs creates and checks linkable ring signatures over P-256.
//
// Usage:
//
//	lrs keygen   -out key.jwk
//	lrs ring     key1.jwk key2.jwk ... > ring.json
//	lrs sign     -key key.jwk -ring ring.json -message 1234 > sig.json
//	lrs verify   -sig sig.json -ring ring.json -message 1234
//	lrs link     a.json b.json
//	lrs register -ledger ledger.cbor -sig sig.json -ring ring.json -message 1234
//
// verify and link exit with status 1 when the signature is invalid or the two
// signatures are not linked.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type command struct {
	name  string
	usage string
	run   func(env *env, args []string) error
}

var commands = []command{
	{"keygen", "generate a P-256 key pair as a JWK", runKeygen},
	{"ring", "build a ring from JWK public or private keys", runRing},
	{"sign", "sign a message on behalf of a ring", runSign},
	{"verify", "verify a signature against a ring", runVerify},
	{"link", "check whether two signatures share a signer", runLink},
	{"register", "add a signature to a ledger, refusing repeated signers", runRegister},
}

// errNegative is returned by commands whose answer is "no".
var errNegative = errors.New("negative result")

type env struct {
	stdout io.Writer
	log    zerolog.Logger
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: lrs [-debug] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.usage)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	level := zerolog.InfoLevel
	if len(args) > 0 && (args[0] == "-debug" || args[0] == "--debug") {
		level = zerolog.DebugLevel
		args = args[1:]
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		e := &env{stdout: stdout, log: log.With().Str("cmd", c.name).Logger()}
		err := c.run(e, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errNegative):
			return 1
		default:
			e.log.Error().Err(err).Msg("failed")
			return 2
		}
	}
	usage(stderr)
	return 2
}
