// Package keyfile persists Hill key matrices.
//
// Keys are stored as JSON (comments tolerated on read), YAML or NumPy .npy
// arrays, chosen by file extension. JSON and YAML documents carry the modulus
// and a SHAKE256 fingerprint that is verified on load. Any format can be
// sealed with a 64-byte AES-SIV wrap key.
package keyfile
