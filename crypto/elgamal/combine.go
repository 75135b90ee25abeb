package elgamal

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/ecgroup"
	"go.dedis.ch/onet/v3/log"
)

// CombinePublicKeys returns the composite key of keys: their common
// generator and the sum of their Y points. Decrypting under the composite
// key needs every matching private key.
func CombinePublicKeys(id ecgroup.CurveID, keys []PublicKey) (PublicKey, error) {
	if len(keys) == 0 {
		return PublicKey{}, anysketch.InvalidArgument("keys cannot be empty")
	}
	group, err := ecgroup.New(id)
	if err != nil {
		return PublicKey{}, err
	}

	g, err := group.Decode(keys[0].G)
	if err != nil {
		return PublicKey{}, anysketch.InvalidArgument("key 0: invalid generator: %v", err)
	}
	sum := group.Identity()
	for i, k := range keys {
		gi, err := group.Decode(k.G)
		if err != nil {
			return PublicKey{}, anysketch.InvalidArgument("key %d: invalid generator: %v", i, err)
		}
		if !gi.Equal(g) {
			return PublicKey{}, anysketch.InvalidArgument("key %d: generators don't match", i)
		}
		y, err := group.Decode(k.Y)
		if err != nil {
			return PublicKey{}, anysketch.InvalidArgument("key %d: %v", i, err)
		}
		sum.Add(sum, y)
	}
	if len(keys) == 1 {
		return keys[0], nil
	}

	y, err := group.Encode(sum)
	if err != nil {
		return PublicKey{}, anysketch.WrapInternal(err, "combined key")
	}
	log.Lvlf3("Combined %d public keys on %v", len(keys), id)
	return PublicKey{G: keys[0].G, Y: y}, nil
}
