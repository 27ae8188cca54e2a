package canvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrMalformed wraps every decoding failure from [Unmarshal] and [Decode].
var ErrMalformed = errors.New("malformed canvas JSON")

// Data is the persisted and exported JSON layout of a document.
type Data struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        DocumentKind `json:"type"`
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Data returns the wire form of the document.
func (d *Document) Data() Data {
	return Data{
		ID:          d.ID,
		Name:        d.Name,
		Kind:        d.Kind,
		Nodes:       d.Nodes(),
		Connections: d.Connections(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// FromData builds a document from its wire form. Node and connection ids,
// geometry and order are kept as given. Duplicate ids, non-positive sizes
// and missing names are rejected; connections with missing endpoints are
// kept so that a stored document always loads.
func FromData(data Data) (*Document, error) {
	if data.Name == "" {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrInvalidName)
	}
	d := &Document{
		ID:        data.ID,
		Name:      data.Name,
		Kind:      data.Kind,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	d.ReplaceContent(data.Nodes, data.Connections)

	if err := d.Validate(); err != nil {
		var structural []error
		for _, e := range unjoin(err) {
			if !errors.Is(e, ErrDanglingConnection) {
				structural = append(structural, e)
			}
		}
		if len(structural) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, errors.Join(structural...))
		}
	}
	return d, nil
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// MarshalJSON encodes the document in its wire form.
func (d *Document) MarshalJSON() ([]byte, error) {
	data := d.Data()
	if data.Nodes == nil {
		data.Nodes = []Node{}
	}
	if data.Connections == nil {
		data.Connections = []Connection{}
	}
	return json.Marshal(data)
}

// Marshal encodes a document as indented JSON.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes a document as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes a document from JSON. See [FromData] for what is
// accepted. The outer id may be empty; callers that import assign one.
func Unmarshal(b []byte) (*Document, error) {
	return Decode(bytes.NewReader(b))
}

// Decode reads a single JSON document from r. Anything but whitespace after
// it is an error.
func Decode(r io.Reader) (*Document, error) {
	var data Data
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after document")
		}
		return nil, fmt.Errorf("%w: trailing data: %w", ErrMalformed, err)
	}
	return FromData(data)
}

// UnmarshalJSON decodes the wire form into d.
func (d *Document) UnmarshalJSON(b []byte) error {
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	doc, err := FromData(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}
