// anysketch builds, encrypts and evaluates sketches from the command line.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/anysketch/estimation"
	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"
)

var cmds = cli.Commands{
	{
		Name:    "keygen",
		Usage:   "create an ElGamal key pair",
		Aliases: []string{"k"},
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "curve",
				Value: int(ecgroup.P256),
				Usage: "curve id, 415 for P-256 and 1087 for Ed25519",
			},
		},
		Action: keygen,
	},
	{
		Name:      "combine",
		Usage:     "combine the public keys of several parties",
		Aliases:   []string{"c"},
		ArgsUsage: "y1 y2 ...",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "curve",
				Value: int(ecgroup.P256),
				Usage: "curve id, 415 for P-256 and 1087 for Ed25519",
			},
			cli.StringFlag{
				Name:  "generator, g",
				Usage: "hex encoded generator shared by the keys, defaults to the base point",
			},
		},
		Action: combine,
	},
	{
		Name:    "encrypt",
		Usage:   "encrypt a sketch described by a toml file",
		Aliases: []string{"e"},
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "the toml file describing the key, the sketch and its content",
			},
		},
		Action: encrypt,
	},
	{
		Name:  "estimate",
		Usage: "estimate the cardinality of a Liquid Legions sketch",
		Flags: []cli.Flag{
			cli.Float64Flag{
				Name:  "decay-rate",
				Value: 12,
				Usage: "decay rate of the exponential register distribution",
			},
			cli.Uint64Flag{
				Name:  "registers",
				Value: 100000,
				Usage: "total number of registers",
			},
			cli.Uint64Flag{
				Name:  "active",
				Usage: "number of active registers",
			},
		},
		Action: estimate,
	},
}

func newApp(out io.Writer) *cli.App {
	cliApp := cli.NewApp()
	cliApp.Name = "anysketch"
	cliApp.Usage = "Build, encrypt and evaluate sketches."
	cliApp.Version = "0.1"
	cliApp.Writer = out
	cliApp.Commands = cmds
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	return cliApp
}

func main() {
	log.ErrFatal(newApp(os.Stdout).Run(os.Args))
}

func keygen(c *cli.Context) error {
	group, err := ecgroup.New(ecgroup.CurveID(c.Int("curve")))
	if err != nil {
		return err
	}
	cipher := elgamal.NewKeyPair(group)
	pk, err := cipher.PublicKey()
	if err != nil {
		return err
	}
	x, err := cipher.PrivateKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "g: %x\ny: %x\nx: %x\n", pk.G, pk.Y, x)
	return nil
}

func combine(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one public key is required")
	}
	id := ecgroup.CurveID(c.Int("curve"))
	group, err := ecgroup.New(id)
	if err != nil {
		return err
	}

	var g []byte
	if s := c.String("generator"); s != "" {
		g, err = hex.DecodeString(s)
	} else {
		g, err = group.Encode(group.Generator())
	}
	if err != nil {
		return fmt.Errorf("invalid generator: %v", err)
	}

	keys := make([]elgamal.PublicKey, c.NArg())
	for i, arg := range c.Args() {
		y, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("key %d is not hex: %v", i, err)
		}
		keys[i] = elgamal.PublicKey{G: g, Y: y}
	}
	combined, err := elgamal.CombinePublicKeys(id, keys)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%x\n", combined.Y)
	return nil
}

func estimate(c *cli.Context) error {
	rate := c.Float64("decay-rate")
	registers := c.Uint64("registers")
	active := c.Uint64("active")
	if rate <= 1 {
		return fmt.Errorf("decay rate %v should be greater than 1", rate)
	}
	if active >= registers {
		return fmt.Errorf("%d active registers out of %d", active, registers)
	}
	fmt.Fprintln(c.App.Writer, estimation.LiquidLegionsCardinality(rate, registers, active))
	return nil
}
