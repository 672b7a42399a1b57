package mes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TristoneFM/material-request-mes/internal/domain"
)

const (
	keyMaterialDescription = "materialDescription"
	keyError               = "error"

	// quantityField is the stock-quantity field the MES emits inside each
	// bin record.
	quantityField = "GESME"
)

// DecodeError reports a material-search payload whose shape does not match
// the MES contract.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed mes payload at %s: %s", e.Path, e.Reason)
}

// LocationSnapshot is the decoded MESMaterialSearch payload for one
// material. The top-level keys of the raw payload are storage-location
// codes (plus the materialDescription/error sentinels), their values map
// storage types to bins. Decoding walks the JSON token stream so the
// discovery order of every level survives, which a plain map unmarshal
// would destroy.
type LocationSnapshot struct {
	MaterialDescription string
	ErrMessage          string
	Locations           []LocationEntry
}

// LocationEntry is one storage location and its storage types, in payload
// order.
type LocationEntry struct {
	Location string
	Types    []TypeEntry
}

// TypeEntry is one storage type and its bins, in payload order.
type TypeEntry struct {
	StorageType string
	Bins        []BinEntry
}

// BinEntry is one warehouse bin. Quantity is nil when the bin record
// carried no quantity field; Reshape excludes such bins rather than
// zero-filling them.
type BinEntry struct {
	Bin      string
	Quantity *int
}

// Unavailable reports whether the MES answered with its error sentinel.
func (s *LocationSnapshot) Unavailable() bool {
	return s.ErrMessage != ""
}

// Reshape flattens the snapshot into one group per (location, type) pair
// that has at least one bin with a defined quantity. Groups and bins keep
// the order the MES reported them in; pairs with no qualifying bins are
// omitted entirely. An error-sentinel snapshot yields no groups.
func (s *LocationSnapshot) Reshape() []domain.StorageGroup {
	if s.Unavailable() {
		return nil
	}

	var groups []domain.StorageGroup
	for _, loc := range s.Locations {
		for _, st := range loc.Types {
			var bins []domain.StorageBin
			for _, b := range st.Bins {
				if b.Quantity == nil {
					continue
				}
				bins = append(bins, domain.StorageBin{Bin: b.Bin, Quantity: *b.Quantity})
			}
			if len(bins) == 0 {
				continue
			}
			groups = append(groups, domain.StorageGroup{
				Location: loc.Location,
				Type:     st.StorageType,
				Bins:     bins,
			})
		}
	}
	return groups
}

// UnmarshalJSON decodes the dynamically-keyed MES payload with explicit
// shape checks at every level.
func (s *LocationSnapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectObject(dec, "$"); err != nil {
		return err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		switch key {
		case keyMaterialDescription:
			v, ok, err := stringValue(dec)
			if err != nil {
				return err
			}
			if ok {
				s.MaterialDescription = v
			}
		case keyError:
			v, ok, err := stringValue(dec)
			if err != nil {
				return err
			}
			if ok {
				s.ErrMessage = v
			}
		default:
			loc, err := decodeLocation(dec, key)
			if err != nil {
				return err
			}
			s.Locations = append(s.Locations, loc)
		}
	}

	_, err := dec.Token() // closing '}'
	return err
}

func decodeLocation(dec *json.Decoder, location string) (LocationEntry, error) {
	loc := LocationEntry{Location: location}
	if err := expectObject(dec, location); err != nil {
		return loc, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return loc, err
		}
		storageType := tok.(string)

		ty, err := decodeType(dec, location, storageType)
		if err != nil {
			return loc, err
		}
		loc.Types = append(loc.Types, ty)
	}

	_, err := dec.Token()
	return loc, err
}

func decodeType(dec *json.Decoder, location, storageType string) (TypeEntry, error) {
	path := location + "." + storageType
	ty := TypeEntry{StorageType: storageType}
	if err := expectObject(dec, path); err != nil {
		return ty, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return ty, err
		}
		binName := tok.(string)

		bin, ok, err := decodeBin(dec, path+"."+binName, binName)
		if err != nil {
			return ty, err
		}
		if ok {
			ty.Bins = append(ty.Bins, bin)
		}
	}

	_, err := dec.Token()
	return ty, err
}

// decodeBin reads one bin value. A non-object value is not a bin record at
// all and is skipped (ok=false); an object without the quantity field is
// kept with a nil quantity so Reshape can exclude it; a quantity that is
// present but not numeric is a decode failure.
func decodeBin(dec *json.Decoder, path, binName string) (BinEntry, bool, error) {
	bin := BinEntry{Bin: binName}

	tok, err := dec.Token()
	if err != nil {
		return bin, false, err
	}
	d, isDelim := tok.(json.Delim)
	if !isDelim {
		return bin, false, nil // scalar or null, already consumed
	}
	if d == '[' {
		return bin, false, skipRest(dec, 1)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return bin, false, err
		}
		field := tok.(string)

		if field != quantityField {
			if err := skipValue(dec); err != nil {
				return bin, false, err
			}
			continue
		}

		v, err := dec.Token()
		if err != nil {
			return bin, false, err
		}
		num, isNum := v.(json.Number)
		if !isNum {
			return bin, false, &DecodeError{Path: path + "." + quantityField, Reason: "quantity is not a number"}
		}
		f, err := num.Float64()
		if err != nil {
			return bin, false, &DecodeError{Path: path + "." + quantityField, Reason: err.Error()}
		}
		q := int(f)
		bin.Quantity = &q
	}

	if _, err := dec.Token(); err != nil {
		return bin, false, err
	}
	return bin, true, nil
}

// expectObject consumes the next token and fails unless it opens an object.
func expectObject(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &DecodeError{Path: path, Reason: "value is not an object"}
	}
	return nil
}

// skipValue consumes the next value, descending through nested structures.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		return skipRest(dec, 1)
	}
	return nil
}

// skipRest consumes tokens until depth open delimiters have been closed.
func skipRest(dec *json.Decoder, depth int) error {
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// stringValue consumes the next value and returns it when it is a string.
// Non-string values (null included) are consumed and reported as absent.
func stringValue(dec *json.Decoder) (string, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", false, err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		return "", false, skipRest(dec, 1)
	}
	str, ok := tok.(string)
	return str, ok, nil
}
