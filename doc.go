// Package anysketch holds the error plumbing shared by the packages of this
// module.
//
// The module builds generalized cardinality and frequency sketches
// (package sketch), encrypts them under a composite ElGamal key
// (packages crypto/elgamal and encrypter), and lets a chain of parties
// blind, re-randomize and decrypt the encrypted registers (package
// protocol). Package noise calibrates and samples the differential
// privacy noise added along the way, and package estimation turns the
// number of active registers of a Liquid Legions sketch back into a
// cardinality.
//
// Every error returned by the module is either an invalid argument, which
// the caller can fix by changing its input, or an internal error, which
// signals that a cryptographic operation failed on valid input. Use
// IsInvalidArgument and IsInternal to tell them apart.
package anysketch
