// Package iojson holds helpers for reading and writing JSON from command
// line programs.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// on ew as a JSON error object.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return writeMarshalError(ew, err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON, for JSON lines output.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

func writeMarshalError(ew io.Writer, marshalErr error) error {
	msg, _ := json.Marshal(marshalErr.Error())
	_, err := fmt.Fprintf(ew, `{"message":"error marshaling output","data":{"json_error":%s}}`+"\n", msg)
	if err != nil {
		return err
	}
	return marshalErr
}
