package archive

import "encoding/binary"

var (
	rootPrefix  = []byte("archive/")
	metaKey     = []byte("archive/m")
	entryPrefix = []byte("archive/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyEntry builds the key of the entry with sequence seq.
func KeyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	return appendBE8(k, seq)
}

// SeqFromKey extracts the sequence from an entry key.
func SeqFromKey(k []byte) (uint64, bool) {
	if len(k) != len(entryPrefix)+8 || string(k[:len(entryPrefix)]) != string(entryPrefix) {
		return 0, false
	}
	return binary.BigEndian.Uint64(k[len(entryPrefix):]), true
}
