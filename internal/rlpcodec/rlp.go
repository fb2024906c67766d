// Package rlpcodec provides a lazy Bytes|List value tree over RLP,
// used by the meta-call pipeline to walk structured arguments without
// committing to a concrete Go type ahead of time (spec §2 "rlp-codec").
package rlpcodec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// Node is a lazily-typed RLP value: either raw Bytes or a List of
// child Nodes. Exactly one of the two fields is meaningful, selected
// by IsList.
type Node struct {
	IsList   bool
	Bytes    []byte
	Elements []Node
}

// Decode parses a single RLP-encoded value into a Node tree.
func Decode(data []byte) (Node, error) {
	var raw rlp.RawValue
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return Node{}, fmt.Errorf("rlp: decode raw value: %w", err)
	}
	return decodeRaw(raw)
}

// DecodeList parses an RLP list's items into a slice of Nodes,
// convenient for the meta-call argument list which is always a
// top-level RLP list.
func DecodeList(data []byte) ([]Node, error) {
	n, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if !n.IsList {
		return nil, fmt.Errorf("rlp: expected list, got bytes")
	}
	return n.Elements, nil
}

func decodeRaw(raw rlp.RawValue) (Node, error) {
	var list []rlp.RawValue
	if err := rlp.DecodeBytes(raw, &list); err == nil {
		elems := make([]Node, 0, len(list))
		for _, item := range list {
			n, err := decodeRaw(item)
			if err != nil {
				return Node{}, err
			}
			elems = append(elems, n)
		}
		return Node{IsList: true, Elements: elems}, nil
	}

	var b []byte
	if err := rlp.DecodeBytes(raw, &b); err != nil {
		return Node{}, fmt.Errorf("rlp: decode leaf: %w", err)
	}
	return Node{Bytes: b}, nil
}

// Encode serializes a Node tree back to RLP bytes.
func Encode(n Node) ([]byte, error) {
	if !n.IsList {
		return rlp.EncodeToBytes(n.Bytes)
	}
	raws := make([]rlp.RawValue, 0, len(n.Elements))
	for _, e := range n.Elements {
		b, err := Encode(e)
		if err != nil {
			return nil, err
		}
		raws = append(raws, b)
	}
	return rlp.EncodeToBytes(raws)
}
