package archive

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"time"

	"github.com/rzbill/cmdring/pkg/id"
)

// ErrCorrupt is returned when a stored entry fails its checksum.
var ErrCorrupt = errors.New("archive: corrupt entry")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

const headerSize = 16 + 8

// Entry is one archived eviction.
type Entry struct {
	Seq       uint64
	ID        id.ID
	EvictedAt time.Time
	Data      []byte
}

func encodeEntry(e Entry) []byte {
	var header [headerSize]byte
	copy(header[:16], e.ID.Bytes())
	binary.BigEndian.PutUint64(header[16:], uint64(e.EvictedAt.UnixMilli()))

	out := make([]byte, 0, binary.MaxVarintLen64+headerSize+len(e.Data)+4)
	out = binary.AppendUvarint(out, headerSize)
	out = append(out, header[:]...)
	out = append(out, e.Data...)
	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, e.Data)
	return binary.BigEndian.AppendUint32(out, crc)
}

func decodeEntry(seq uint64, b []byte) (Entry, error) {
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen != headerSize || n+headerSize+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	header := b[n : n+headerSize]
	payload := b[n+headerSize : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return Entry{}, ErrCorrupt
	}
	recID, ok := id.FromBytes(header[:16])
	if !ok {
		return Entry{}, ErrCorrupt
	}
	return Entry{
		Seq:       seq,
		ID:        recID,
		EvictedAt: time.UnixMilli(int64(binary.BigEndian.Uint64(header[16:]))),
		Data:      append([]byte(nil), payload...),
	}, nil
}
