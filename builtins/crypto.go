package builtins

import (
	"avm/eval"
	"avm/types"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
)

// ============================================================================
// HASHING BUILTINS
// ============================================================================

// getHasher returns a hash.Hash for the given algorithm name
func getHasher(algo string) (hash.Hash, bool) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), true
	case "sha1":
		return sha1.New(), true
	case "sha224":
		return sha256.New224(), true
	case "sha256", "":
		return sha256.New(), true
	case "sha384":
		return sha512.New384(), true
	case "sha512":
		return sha512.New(), true
	case "ripemd160":
		return ripemd160.New(), true
	case "blake2b":
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, false
		}
		return h, true
	default:
		return nil, false
	}
}

// builtinHash hashes the display form of data with the named algorithm
// hash(data, algo) -> string (uppercase hex)
func builtinHash(_ types.Node, st *eval.State) (types.Node, error) {
	data, err := formal(st, "data")
	if err != nil {
		return nil, err
	}
	algo, err := formal(st, "algo")
	if err != nil {
		return nil, err
	}
	name, ok := algo.(*types.String)
	if !ok {
		return nil, types.NewException(types.ValueError, "hash algorithm must be a string, got %s", types.TypeName(algo))
	}

	hasher, ok := getHasher(name.Val)
	if !ok {
		return nil, types.NewException(types.ValueError, "unknown hash algorithm %q", name.Val)
	}
	hasher.Write([]byte(types.Display(data)))
	return st.Arena.String(strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))), nil
}
