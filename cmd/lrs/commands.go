package main

import (
	cryptorand "crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/sample"
	"github.com/taurusgroup/linkable-ring-sig/pkg/registry"
	"github.com/taurusgroup/linkable-ring-sig/pkg/ringsig"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// randomSource returns crypto/rand unless a seed is given.
func randomSource(seed string) []ringsig.Option {
	if seed == "" {
		return nil
	}
	return []ringsig.Option{ringsig.WithRandom(sample.Seeded([]byte(seed)))}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readKey(path string) (keys.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	k, err := keys.ParseJWK(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}

func messageFlags(fs *flag.FlagSet) (message, file *string) {
	message = fs.String("message", "", "message, as a string")
	file = fs.String("message-file", "", "read the message from a file instead")
	return
}

func loadMessage(message, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return []byte(message), nil
}

func runKeygen(env *env, args []string) error {
	fs := newFlagSet("keygen")
	out := fs.String("out", "", "write the private JWK to this file (required)")
	seed := fs.String("seed", "", "derive the key from a seed, for tests only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("keygen: -out is required")
	}

	var rand io.Reader = cryptorand.Reader
	if *seed != "" {
		rand = sample.Seeded([]byte(*seed))
	}
	sk, err := keys.GenerateKey(rand)
	if err != nil {
		return err
	}
	k, err := sk.JWK()
	if err != nil {
		return err
	}
	data, err := json.Marshal(k)
	if err != nil {
		return err
	}
	if err = os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	env.log.Info().Str("file", *out).Msg("wrote private key")
	return writeJSON(env.stdout, sk.PublicKey)
}

func runRing(env *env, args []string) error {
	fs := newFlagSet("ring")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("ring: at least two key files are needed")
	}
	ring := make([]keys.PublicKey, 0, fs.NArg())
	for _, path := range fs.Args() {
		k, err := readKey(path)
		if err != nil {
			return err
		}
		ring = append(ring, k.Public())
		env.log.Debug().Str("file", path).Msg("added key")
	}
	return writeJSON(env.stdout, ring)
}

func runSign(env *env, args []string) error {
	fs := newFlagSet("sign")
	keyFile := fs.String("key", "", "private JWK of the signer (required)")
	ringFile := fs.String("ring", "", "ring JSON (required)")
	seed := fs.String("seed", "", "derive the randomness from a seed, for tests only")
	message, messageFile := messageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keyFile == "" || *ringFile == "" {
		return errors.New("sign: -key and -ring are required")
	}

	k, err := readKey(*keyFile)
	if err != nil {
		return err
	}
	sk, ok := k.(*keys.PrivateKey)
	if !ok {
		return fmt.Errorf("sign: %s holds no private key", *keyFile)
	}
	var ring []keys.PublicKey
	if err = readJSON(*ringFile, &ring); err != nil {
		return err
	}
	msg, err := loadMessage(*message, *messageFile)
	if err != nil {
		return err
	}

	sig, err := ringsig.NewEngine(randomSource(*seed)...).Create(sk, ring, msg)
	if err != nil {
		return err
	}
	env.log.Debug().Int("ring", len(ring)).Msg("signed")
	return writeJSON(env.stdout, sig)
}

func runVerify(env *env, args []string) error {
	fs := newFlagSet("verify")
	sigFile := fs.String("sig", "", "signature JSON (required)")
	ringFile := fs.String("ring", "", "ring JSON (required)")
	message, messageFile := messageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sigFile == "" || *ringFile == "" {
		return errors.New("verify: -sig and -ring are required")
	}

	var (
		sig  ringsig.Signature
		ring []keys.PublicKey
	)
	if err := readJSON(*sigFile, &sig); err != nil {
		return err
	}
	if err := readJSON(*ringFile, &ring); err != nil {
		return err
	}
	msg, err := loadMessage(*message, *messageFile)
	if err != nil {
		return err
	}

	ok, err := ringsig.Verify(&sig, ring, msg)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(env.stdout, "invalid")
		return errNegative
	}
	fmt.Fprintln(env.stdout, "valid")
	return nil
}

func runLink(env *env, args []string) error {
	fs := newFlagSet("link")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("link: exactly two signature files are needed")
	}
	var a, b ringsig.Signature
	if err := readJSON(fs.Arg(0), &a); err != nil {
		return err
	}
	if err := readJSON(fs.Arg(1), &b); err != nil {
		return err
	}
	if !ringsig.Link(&a, &b) {
		fmt.Fprintln(env.stdout, "not linked")
		return errNegative
	}
	fmt.Fprintln(env.stdout, "linked")
	return nil
}

func runRegister(env *env, args []string) error {
	fs := newFlagSet("register")
	ledger := fs.String("ledger", "", "CBOR ledger file, created if missing (required)")
	sigFile := fs.String("sig", "", "signature JSON (required)")
	ringFile := fs.String("ring", "", "ring JSON (required)")
	caseID := fs.String("case", "", "ballot identifier stored with the entry")
	message, messageFile := messageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ledger == "" || *sigFile == "" || *ringFile == "" {
		return errors.New("register: -ledger, -sig and -ring are required")
	}

	reg := registry.New(registry.WithLogger(env.log))
	data, err := os.ReadFile(*ledger)
	switch {
	case err == nil:
		if err = reg.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("%s: %w", *ledger, err)
		}
	case errors.Is(err, os.ErrNotExist):
		env.log.Info().Str("file", *ledger).Msg("starting a new ledger")
	default:
		return err
	}

	var (
		sig  ringsig.Signature
		ring []keys.PublicKey
	)
	if err = readJSON(*sigFile, &sig); err != nil {
		return err
	}
	if err = readJSON(*ringFile, &ring); err != nil {
		return err
	}
	msg, err := loadMessage(*message, *messageFile)
	if err != nil {
		return err
	}

	_, err = reg.Register(registry.Submission{Signature: &sig, Ring: ring, Message: msg, CaseID: *caseID})
	switch {
	case errors.Is(err, registry.ErrAlreadyRegistered), errors.Is(err, registry.ErrInvalidSignature):
		fmt.Fprintln(env.stdout, "rejected")
		return fmt.Errorf("%w: %v", errNegative, err)
	case err != nil:
		return err
	}

	if data, err = reg.MarshalBinary(); err != nil {
		return err
	}
	if err = os.WriteFile(*ledger, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "registered %d\n", reg.Len())
	return nil
}
