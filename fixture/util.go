package fixture

import (
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// hashElements returns MiMC(e0 || e1 || ...) over the canonical big-endian
// encoding of each element.
func hashElements(elems ...*fr.Element) ([]byte, error) {
	h := mimc.NewMiMC()
	for _, e := range elems {
		b := e.Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

// toHex renders the field element encoded by the big-endian bytes b as a
// 0x-prefixed, 32-byte hex string.
func toHex(b []byte) string {
	var e fr.Element
	e.SetBytes(b)
	return elementHex(&e)
}

func elementHex(e *fr.Element) string {
	b := e.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}
