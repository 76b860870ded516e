package value

import (
	"encoding/json"
	"io"

	"github.com/gogpu/vpgen/internal/vperrors"
)

// Decode parses a single JSON value from r, preserving object key order
// and array element order via encoding/json's token stream instead of
// unmarshaling into a plain map[string]interface{}.
func Decode(r io.Reader, source string) (Value, error) {
	dec := json.NewDecoder(r)
	v, err := decodeValue(dec, source)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, source string) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, &vperrors.ParseError{Source: source, Reason: "reading JSON token", Err: err}
	}
	return decodeFromToken(dec, tok, source)
}

func decodeFromToken(dec *json.Decoder, tok json.Token, source string) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, &vperrors.ParseError{Source: source, Reason: "reading object key", Err: err}
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, &vperrors.ParseError{Source: source, Reason: "object key is not a string"}
				}
				val, err := decodeValue(dec, source)
				if err != nil {
					return Value{}, err
				}
				obj.Object.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, &vperrors.ParseError{Source: source, Reason: "closing object", Err: err}
			}
			return obj, nil

		case '[':
			var elems []Value
			for dec.More() {
				el, err := decodeValue(dec, source)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, &vperrors.ParseError{Source: source, Reason: "closing array", Err: err}
			}
			kind := KindArray
			if len(elems) > 0 && elems[0].Kind == KindScalar && elems[0].IsString {
				kind = KindEnumList
			}
			return Value{Kind: kind, List: elems}, nil
		}

	case bool:
		return Value{Kind: KindBool, Bool: t}, nil

	case string:
		return Value{Kind: KindScalar, Scalar: t, IsString: true}, nil

	case float64:
		return Value{Kind: KindScalar, Scalar: formatNumber(t)}, nil

	case nil:
		return Value{Kind: KindScalar, Scalar: "nullptr"}, nil
	}

	return Value{}, &vperrors.ParseError{Source: source, Reason: "unsupported JSON token"}
}
