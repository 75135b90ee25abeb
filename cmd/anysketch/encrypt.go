package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/anysketch/encrypter"
	"go.dedis.ch/anysketch/sketch"
	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"
)

type item struct {
	ID       string          `toml:"id"`
	Metadata sketch.Metadata `toml:"metadata"`
}

type register struct {
	Index  uint64  `toml:"index"`
	Values []int64 `toml:"values"`
}

// encryptConfig is the content of the file given to the encrypt command.
type encryptConfig struct {
	Curve      int32                      `toml:"curve"`
	MaxCounter uint64                     `toml:"max_counter"`
	Generator  string                     `toml:"generator"`
	PublicKey  string                     `toml:"public_key"`
	Strategy   string                     `toml:"strategy"`
	Noise      *encrypter.NoiseParameters `toml:"noise"`
	Sketch     sketch.Config              `toml:"sketch"`
	Items      []item                     `toml:"item"`
	Registers  []register                 `toml:"register"`
}

func parseStrategy(s string) (encrypter.Strategy, error) {
	switch s {
	case "", "conflicting_keys":
		return encrypter.ConflictingKeys, nil
	case "flagged_key":
		return encrypter.FlaggedKey, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

func encrypt(c *cli.Context) error {
	fn := c.String("config")
	if fn == "" {
		return errors.New("--config flag is required")
	}
	var cfg encryptConfig
	if _, err := toml.DecodeFile(fn, &cfg); err != nil {
		return fmt.Errorf("reading %s: %v", fn, err)
	}
	out, err := encryptFromConfig(&cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%x\n", out)
	return nil
}

func encryptFromConfig(cfg *encryptConfig) ([]byte, error) {
	id := ecgroup.CurveID(cfg.Curve)
	group, err := ecgroup.New(id)
	if err != nil {
		return nil, err
	}
	strategy, err := parseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	pk := elgamal.PublicKey{}
	if cfg.Generator != "" {
		pk.G, err = hex.DecodeString(cfg.Generator)
	} else {
		pk.G, err = group.Encode(group.Generator())
	}
	if err != nil {
		return nil, fmt.Errorf("invalid generator: %v", err)
	}
	if pk.Y, err = hex.DecodeString(cfg.PublicKey); err != nil {
		return nil, fmt.Errorf("invalid public key: %v", err)
	}

	s, err := cfg.Sketch.NewSketch()
	if err != nil {
		return nil, err
	}
	for _, it := range cfg.Items {
		if err := s.InsertString(it.ID, it.Metadata); err != nil {
			return nil, fmt.Errorf("inserting %q: %v", it.ID, err)
		}
	}
	for _, r := range cfg.Registers {
		if err := s.AggregateIntoRegister(r.Index, r.Values); err != nil {
			return nil, fmt.Errorf("register %d: %v", r.Index, err)
		}
	}
	log.Lvlf2("Sketch holds %d registers", s.Len())

	enc, err := encrypter.New(id, cfg.MaxCounter, pk)
	if err != nil {
		return nil, err
	}
	record := sketch.ToRecord(s)
	out, err := enc.Encrypt(record, strategy)
	if err != nil {
		return nil, err
	}
	if cfg.Noise != nil {
		return enc.AppendNoiseRegisters(out, *cfg.Noise, record.Width())
	}
	return out, nil
}
