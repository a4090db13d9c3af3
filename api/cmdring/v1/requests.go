package cmdringv1

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadRequest builds the Read argument. waitMs > 0 asks the server to
// block that long for a commit when offset is at the end of the stream.
func ReadRequest(offset int64, maxLen int, waitMs int64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"offset":  structpb.NewNumberValue(float64(offset)),
		"max_len": structpb.NewNumberValue(float64(maxLen)),
		"wait_ms": structpb.NewNumberValue(float64(waitMs)),
	}}
}

// SeekToRequest builds the SeekToCommand argument.
func SeekToRequest(writeCmd, writeCmdOffset uint32) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"write_cmd":        structpb.NewNumberValue(float64(writeCmd)),
		"write_cmd_offset": structpb.NewNumberValue(float64(writeCmdOffset)),
	}}
}

// ArchiveRequest builds the ListArchive argument.
func ArchiveRequest(limit int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"limit": structpb.NewNumberValue(float64(limit)),
	}}
}

// Int returns the integral field key of s, or def when it is absent or not
// a number.
func Int(s *structpb.Struct, key string, def int64) int64 {
	v, ok := s.GetFields()[key]
	if !ok {
		return def
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return def
	}
	return int64(n.NumberValue)
}

// IsInt reports whether field key of s holds a non-negative whole number.
func IsInt(s *structpb.Struct, key string) bool {
	n, ok := s.GetFields()[key].GetKind().(*structpb.Value_NumberValue)
	return ok && n.NumberValue >= 0 && n.NumberValue == float64(int64(n.NumberValue))
}
