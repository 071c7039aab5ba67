// Package hill implements the Hill block cipher over byte data.
//
// Data is padded to a multiple of the key dimension n, split into n-byte
// blocks and each block is multiplied by the key matrix modulo m. Decryption
// multiplies by the modular inverse of the key and removes the padding.
//
// The construction is linear and offers no security against known-plaintext
// attacks. It exists for faithful reproduction of the classical transform.
package hill
