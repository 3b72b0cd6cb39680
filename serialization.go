package paillier

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Wire discriminants. Field names and tags are fixed by the protocol.
const (
	typeAdd = "ADD"
	typeMul = "MUL"
	typeSub = "SUB"

	typeAddResp = "ADD_RESP"
	typeMulResp = "MUL_RESP"
	typeSubResp = "SUB_RESP"
	typeError   = "ERROR"
)

// ========== Request Encoding ==========

type addRequestWire struct {
	Type string          `json:"type"`
	E1   json.RawMessage `json:"e1"`
	E2   json.RawMessage `json:"e2"`
	N    json.RawMessage `json:"n"`
}

type mulRequestWire struct {
	Type       string          `json:"type"`
	Ciphertext json.RawMessage `json:"ciphertext"`
	Multiplier json.RawMessage `json:"multiplier"`
	N          json.RawMessage `json:"n"`
}

type subRequestWire struct {
	Type string          `json:"type"`
	E1   json.RawMessage `json:"e1"`
	E2   json.RawMessage `json:"e2"`
	N    json.RawMessage `json:"n"`
}

// EncodeRequest encodes a request as a single JSON message. Integers
// are emitted as bare JSON numbers of arbitrary precision, so values of
// any size round-trip exactly.
func EncodeRequest(req Request) ([]byte, error) {
	switch r := req.(type) {
	case *AddRequest:
		return json.Marshal(addRequestWire{
			Type: typeAdd,
			E1:   rawInt(r.E1),
			E2:   rawInt(r.E2),
			N:    rawInt(r.N),
		})
	case *MulRequest:
		return json.Marshal(mulRequestWire{
			Type:       typeMul,
			Ciphertext: rawInt(r.Ciphertext),
			Multiplier: rawInt(r.Multiplier),
			N:          rawInt(r.N),
		})
	case *SubRequest:
		return json.Marshal(subRequestWire{
			Type: typeSub,
			E1:   rawInt(r.E1),
			E2:   rawInt(r.E2),
			N:    rawInt(r.N),
		})
	default:
		return nil, fmt.Errorf("paillier: unsupported request type %T", req)
	}
}

// ========== Request Decoding ==========

// DecodeRequest decodes a single JSON request message. It fails with a
// ParseError naming the first missing or invalid field; an unrecognized
// discriminant is reported against the "type" field.
func DecodeRequest(data []byte) (Request, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	typ, err := stringField(obj, "type")
	if err != nil {
		return nil, err
	}

	switch typ {
	case typeAdd:
		e1, e2, n, err := operandFields(obj)
		if err != nil {
			return nil, err
		}
		return &AddRequest{E1: e1, E2: e2, N: n}, nil

	case typeMul:
		x, err := intField(obj, "ciphertext")
		if err != nil {
			return nil, err
		}
		m, err := intField(obj, "multiplier")
		if err != nil {
			return nil, err
		}
		n, err := intField(obj, "n")
		if err != nil {
			return nil, err
		}
		return &MulRequest{Ciphertext: x, Multiplier: m, N: n}, nil

	case typeSub:
		e1, e2, n, err := operandFields(obj)
		if err != nil {
			return nil, err
		}
		return &SubRequest{E1: e1, E2: e2, N: n}, nil

	default:
		return nil, &ParseError{Field: "type", Reason: fmt.Sprintf("has unknown value %q", typ)}
	}
}

// operandFields extracts the e1/e2/n triple shared by Add and Sub.
func operandFields(obj map[string]json.RawMessage) (e1, e2, n *big.Int, err error) {
	if e1, err = intField(obj, "e1"); err != nil {
		return nil, nil, nil, err
	}
	if e2, err = intField(obj, "e2"); err != nil {
		return nil, nil, nil, err
	}
	if n, err = intField(obj, "n"); err != nil {
		return nil, nil, nil, err
	}
	return e1, e2, n, nil
}

// ========== Response Encoding ==========

type resultResponseWire struct {
	Type   string          `json:"type"`
	Result json.RawMessage `json:"result"`
}

type errorResponseWire struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

// EncodeResponse encodes a response as a single JSON message.
func EncodeResponse(resp Response) ([]byte, error) {
	switch r := resp.(type) {
	case *AddResponse:
		return json.Marshal(resultResponseWire{Type: typeAddResp, Result: rawInt(r.Result)})
	case *MulResponse:
		return json.Marshal(resultResponseWire{Type: typeMulResp, Result: rawInt(r.Result)})
	case *SubResponse:
		return json.Marshal(resultResponseWire{Type: typeSubResp, Result: rawInt(r.Result)})
	case *ErrorResponse:
		return json.Marshal(errorResponseWire{Type: typeError, Result: r.Message})
	default:
		return nil, fmt.Errorf("paillier: unsupported response type %T", resp)
	}
}

// ========== Response Decoding ==========

// DecodeResponse decodes a single JSON response message under the same
// contract as DecodeRequest.
func DecodeResponse(data []byte) (Response, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	typ, err := stringField(obj, "type")
	if err != nil {
		return nil, err
	}

	switch typ {
	case typeAddResp, typeMulResp, typeSubResp:
		result, err := intField(obj, "result")
		if err != nil {
			return nil, err
		}
		switch typ {
		case typeAddResp:
			return &AddResponse{Result: result}, nil
		case typeMulResp:
			return &MulResponse{Result: result}, nil
		default:
			return &SubResponse{Result: result}, nil
		}

	case typeError:
		msg, err := stringField(obj, "result")
		if err != nil {
			return nil, err
		}
		return &ErrorResponse{Message: msg}, nil

	default:
		return nil, &ParseError{Field: "type", Reason: fmt.Sprintf("has unknown value %q", typ)}
	}
}

// ========== Field Helpers ==========

// rawInt renders x as a bare JSON number. json.Marshal validates the
// raw bytes, so a nil or otherwise unencodable value surfaces as an
// encoding error rather than corrupt output.
func rawInt(x *big.Int) json.RawMessage {
	return json.RawMessage(x.String())
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &ParseError{Reason: "not a JSON object"}
	}
	return obj, nil
}

// intField extracts an arbitrary-precision integer. Both bare JSON
// numbers and decimal strings are accepted; anything else (floats,
// exponents, non-numeric text) is an invalid field.
func intField(obj map[string]json.RawMessage, name string) (*big.Int, error) {
	raw, ok := obj[name]
	if !ok {
		return nil, &ParseError{Field: name}
	}

	s := string(raw)
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &ParseError{Field: name, Reason: "is not a valid string"}
		}
	}

	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &ParseError{Field: name, Reason: "is not an integer"}
	}
	return x, nil
}

func stringField(obj map[string]json.RawMessage, name string) (string, error) {
	raw, ok := obj[name]
	if !ok {
		return "", &ParseError{Field: name}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ParseError{Field: name, Reason: "is not a string"}
	}
	return s, nil
}
