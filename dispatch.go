package paillier

import (
	"fmt"
	"math/big"
)

// Dispatch performs the ciphertext-only computation a request asks for
// and wraps the result in the matching response variant. It needs no
// key material beyond the modulus carried by the request.
//
// Every failure becomes an ErrorResponse; Dispatch never propagates an
// error to its caller, so a hosting transport cannot be crashed by a
// bad request. In particular a non-positive modulus is rejected up
// front: n = 0 would divide by zero in the modular reductions, and
// big.Int.Exp treats modulus 0 as unreduced exponentiation.
func Dispatch(req Request) Response {
	switch r := req.(type) {
	case *AddRequest:
		if err := checkModulus(r.N); err != nil {
			return &ErrorResponse{Message: err.Error()}
		}
		return &AddResponse{Result: NewEvaluator(r.N).Add(r.E1, r.E2)}

	case *MulRequest:
		if err := checkModulus(r.N); err != nil {
			return &ErrorResponse{Message: err.Error()}
		}
		result := NewEvaluator(r.N).MulPlain(r.Ciphertext, r.Multiplier)
		if result == nil {
			// Negative multiplier and a ciphertext with no inverse.
			return &ErrorResponse{Message: ErrNoInverse.Error()}
		}
		return &MulResponse{Result: result}

	case *SubRequest:
		if err := checkModulus(r.N); err != nil {
			return &ErrorResponse{Message: err.Error()}
		}
		result, err := NewEvaluator(r.N).Sub(r.E1, r.E2)
		if err != nil {
			return &ErrorResponse{Message: err.Error()}
		}
		return &SubResponse{Result: result}

	default:
		return &ErrorResponse{Message: fmt.Sprintf("unsupported request type %T", req)}
	}
}

// checkModulus rejects a modulus no ciphertext space can exist under.
func checkModulus(n *big.Int) error {
	if n == nil || n.Sign() <= 0 {
		return fmt.Errorf("modulus must be a positive integer, got %s", n)
	}
	return nil
}

// HandleMessage is the compute party's whole exchange: decode one
// encoded request, dispatch it, encode the response. Malformed input
// yields an encoded ErrorResponse carrying the parse failure, so the
// sender always receives exactly one message back.
func HandleMessage(data []byte) []byte {
	var resp Response
	if req, err := DecodeRequest(data); err != nil {
		resp = &ErrorResponse{Message: err.Error()}
	} else {
		resp = Dispatch(req)
	}

	out, err := EncodeResponse(resp)
	if err != nil {
		// Only reachable if a computation produced an unencodable
		// value; report that instead of returning nothing.
		out, _ = EncodeResponse(&ErrorResponse{Message: "internal error: " + err.Error()})
	}
	return out
}
