package symbolic

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// wireNode is the byte-stable encoding of a Node. field.Element has no
// exported internal representation to hand to gob/cbor directly, so every
// constant is round-tripped through its canonical 8-byte form
// (field.Element.Bytes / field.FromBytes), which both codecs below handle
// as an ordinary byte array.
type wireNode struct {
	Kind      NodeKind
	VarKind   EntryKind
	Offset    int
	PartIndex int
	Index     int
	Phase     int
	Const     [8]byte
	L, R      int
	Deg       int
}

type wireDAG struct {
	Nodes         []wireNode
	ConstraintIdx []int
}

func toWire(d *DAG) wireDAG {
	w := wireDAG{
		Nodes:         make([]wireNode, len(d.Nodes)),
		ConstraintIdx: append([]int(nil), d.ConstraintIdx...),
	}
	for i, n := range d.Nodes {
		w.Nodes[i] = wireNode{
			Kind:      n.Kind,
			VarKind:   n.Var.Kind,
			Offset:    n.Var.Offset,
			PartIndex: n.Var.PartIndex,
			Index:     n.Var.Index,
			Phase:     n.Var.Phase,
			Const:     n.Const.Bytes(),
			L:         n.L,
			R:         n.R,
			Deg:       n.Deg,
		}
	}
	return w
}

func fromWire(w wireDAG) *DAG {
	d := &DAG{
		Nodes:         make([]Node, len(w.Nodes)),
		ConstraintIdx: append([]int(nil), w.ConstraintIdx...),
	}
	for i, n := range w.Nodes {
		d.Nodes[i] = Node{
			Kind: n.Kind,
			Var: Entry{
				Kind:      n.VarKind,
				Offset:    n.Offset,
				PartIndex: n.PartIndex,
				Index:     n.Index,
				Phase:     n.Phase,
			},
			Const: field.FromBytes(n.Const),
			L:     n.L,
			R:     n.R,
			Deg:   n.Deg,
		}
	}
	return d
}

// EncodeGob writes d to w using encoding/gob, the default persistence
// format for the verifying key (spec §6 "Persisted state layout").
func (d *DAG) EncodeGob(w io.Writer) error {
	return gob.NewEncoder(w).Encode(toWire(d))
}

// DecodeDAGGob reads a DAG previously written by EncodeGob.
func DecodeDAGGob(r io.Reader) (*DAG, error) {
	var w wireDAG
	if err := gob.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("symbolic: gob decode: %w", err)
	}
	d := fromWire(w)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// EncodeCBOR writes d to w using CBOR — a cross-language-friendly
// alternative wire format for the same persisted DAG, exercising
// github.com/fxamacker/cbor/v2 (already part of the wider dependency
// surface via the gnark examples' witness/circuit serialization).
func (d *DAG) EncodeCBOR(w io.Writer) error {
	data, err := cbor.Marshal(toWire(d))
	if err != nil {
		return fmt.Errorf("symbolic: cbor encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeDAGCBOR reads a DAG previously written by EncodeCBOR.
func DecodeDAGCBOR(r io.Reader) (*DAG, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("symbolic: cbor read: %w", err)
	}
	var w wireDAG
	if err := cbor.Unmarshal(buf.Bytes(), &w); err != nil {
		return nil, fmt.Errorf("symbolic: cbor decode: %w", err)
	}
	d := fromWire(w)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
