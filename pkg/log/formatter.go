package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// TextFormatter renders entries as a single human-readable line:
//
//	2026-01-02T15:04:05.000Z INFO  committed command component=device size=7
type TextFormatter struct {
	// DisableTimestamp omits the leading timestamp (useful in tests).
	DisableTimestamp bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(e *Entry) ([]byte, error) {
	var b bytes.Buffer
	if !f.DisableTimestamp {
		b.WriteString(e.Timestamp.UTC().Format(timestampFormat))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level.String(), e.Message)
	for _, k := range sortedKeys(e.Fields) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(textValue(e.Fields[k]))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		if strings.ContainsAny(t, " \t\n\"=") {
			return fmt.Sprintf("%q", t)
		}
		return t
	case error:
		return fmt.Sprintf("%q", t.Error())
	case time.Duration:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// JSONFormatter renders entries as one JSON object per line.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(e *Entry) ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		switch t := v.(type) {
		case error:
			m[k] = t.Error()
		case time.Duration:
			m[k] = t.String()
		default:
			m[k] = v
		}
	}
	m["time"] = e.Timestamp.UTC().Format(timestampFormat)
	m["level"] = e.Level.String()
	m["msg"] = e.Message
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
