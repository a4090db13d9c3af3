package log

import "time"

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a field from any value.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Str builds a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 builds an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Bool builds a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration builds a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err attaches an error under the "error" key. A nil error yields an empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags an entry with the emitting component.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
