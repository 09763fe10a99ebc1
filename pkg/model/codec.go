package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes models for storage.
type Codec interface {
	Name() string
	Encode(*Model) ([]byte, error)
	Decode([]byte) (*Model, error)
}

// JSON writes indented JSON, the format simulators read.
var JSON Codec = jsonCodec{}

// CBOR writes deterministic CBOR, a compact format for caching artifacts.
var CBOR Codec = newCBORCodec()

// CodecFor returns the codec registered under a name.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return nil, fmt.Errorf("unknown model format %q", name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return buf.Bytes(), nil
}

func (jsonCodec) Decode(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return &m, nil
}

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() cborCodec {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	enc, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create model CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyQuiet,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create model CBOR decoder mode: %v", err))
	}
	return cborCodec{enc: enc, dec: dec}
}

func (cborCodec) Name() string { return "cbor" }

func (c cborCodec) Encode(m *Model) ([]byte, error) {
	data, err := c.enc.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return data, nil
}

func (c cborCodec) Decode(data []byte) (*Model, error) {
	var m Model
	if err := c.dec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return &m, nil
}
