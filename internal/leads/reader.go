// Package leads decodes raw lead batches from JSON documents.
package leads

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"lead-exporter/internal/validate"
)

// ErrNotObject is returned for an array element or line that is not a JSON
// object.
var ErrNotObject = errors.New("lead is not a JSON object")

// ErrTrailingData is returned when input follows a {"leads": [...]} envelope.
var ErrTrailingData = errors.New("unexpected data after leads envelope")

// ReadFile decodes the leads stored at path. See Read.
func ReadFile(path string) ([]validate.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open leads file %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read leads file %s: %w", path, err)
	}

	return records, nil
}

// Read decodes either a JSON array of objects, an object with a "leads"
// array, or JSON lines (one object per line, blank lines skipped).
// Numbers are kept as json.Number.
func Read(r io.Reader) ([]validate.Record, error) {
	br := bufio.NewReader(r)

	first, err := firstByte(br)
	if errors.Is(err, io.EOF) {
		return []validate.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	if first == '[' {
		return readArray(br)
	}

	return readStream(br)
}

func firstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		if !isSpace(b) {
			return b, br.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	return dec
}

func readArray(r io.Reader) ([]validate.Record, error) {
	var raw []json.RawMessage
	if err := newDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode lead array: %w", err)
	}

	records := make([]validate.Record, 0, len(raw))
	for i, msg := range raw {
		rec, err := decodeObject(msg)
		if err != nil {
			return nil, fmt.Errorf("lead %d: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// readStream handles JSON lines and the {"leads": [...]} envelope.
func readStream(r io.Reader) ([]validate.Record, error) {
	dec := newDecoder(r)
	records := []validate.Record{}

	for i := 0; ; i++ {
		var msg json.RawMessage

		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("lead %d: %w", i, err)
		}

		rec, err := decodeObject(msg)
		if err != nil {
			return nil, fmt.Errorf("lead %d: %w", i, err)
		}

		if i == 0 && len(rec) == 1 {
			if inner, ok := rec["leads"]; ok {
				if list, ok := inner.([]any); ok {
					if dec.More() {
						return nil, ErrTrailingData
					}

					return fromList(list)
				}
			}
		}

		records = append(records, rec)
	}
}

func fromList(list []any) ([]validate.Record, error) {
	records := make([]validate.Record, 0, len(list))

	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("lead %d: %w", i, ErrNotObject)
		}

		records = append(records, validate.Record(obj))
	}

	return records, nil
}

func decodeObject(msg json.RawMessage) (validate.Record, error) {
	if t := bytes.TrimSpace(msg); len(t) == 0 || t[0] != '{' {
		return nil, ErrNotObject
	}

	var rec validate.Record
	if err := newDecoder(bytes.NewReader(msg)).Decode(&rec); err != nil {
		return nil, err
	}

	return rec, nil
}
