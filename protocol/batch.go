package protocol

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/crypto/elgamal"
	"go.dedis.ch/onet/v3/log"
)

// Action is applied to one ciphertext of a batch.
type Action int32

const (
	// Blind is Cryptor.Blind.
	Blind Action = iota
	// PartialDecrypt removes this party's layer but keeps U, which the
	// following parties need to remove theirs.
	PartialDecrypt
	// Decrypt removes this party's layer and outputs only the resulting
	// point.
	Decrypt
	// ReRandomize is Cryptor.ReRandomize.
	ReRandomize
	// Noop copies the ciphertext.
	Noop
)

func (a Action) String() string {
	switch a {
	case Blind:
		return "blind"
	case PartialDecrypt:
		return "partial decrypt"
	case Decrypt:
		return "decrypt"
	case ReRandomize:
		return "re-randomize"
	case Noop:
		return "noop"
	}
	return "unknown action"
}

// BatchProcess applies actions[i] to the i-th ciphertext of data and
// appends the results, in order, to dst. data must hold exactly
// len(actions) ciphertexts.
func (c *Cryptor) BatchProcess(dst, data []byte, actions []Action) ([]byte, error) {
	size := c.group.CiphertextLen()
	if len(data) != len(actions)*size {
		return nil, anysketch.InvalidArgument("the input data can not be partitioned to %d ciphertexts", len(actions))
	}
	cts, err := elgamal.SplitCiphertexts(c.group, data)
	if err != nil {
		return nil, err
	}

	c.Lock()
	defer c.Unlock()

	for i, ct := range cts {
		switch actions[i] {
		case Blind:
			blinded, err := c.blind(ct)
			if err != nil {
				return nil, anysketch.ErrorOrNil(err, "blind")
			}
			dst = blinded.AppendTo(dst)
		case PartialDecrypt:
			m, err := c.local.Decrypt(ct)
			if err != nil {
				return nil, anysketch.ErrorOrNil(err, "partial decrypt")
			}
			dst = append(append(dst, ct.U...), m...)
		case Decrypt:
			m, err := c.local.Decrypt(ct)
			if err != nil {
				return nil, anysketch.ErrorOrNil(err, "decrypt")
			}
			dst = append(dst, m...)
		case ReRandomize:
			rerand, err := c.reRandomize(ct)
			if err != nil {
				return nil, anysketch.ErrorOrNil(err, "re-randomize")
			}
			dst = rerand.AppendTo(dst)
		case Noop:
			dst = ct.AppendTo(dst)
		default:
			return nil, anysketch.InvalidArgument("unknown action %d at position %d", actions[i], i)
		}
	}
	log.Lvlf4("Processed a batch of %d ciphertexts", len(cts))
	return dst, nil
}
