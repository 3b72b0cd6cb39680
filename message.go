package paillier

import "math/big"

// Request is a homomorphic computation request sent to the compute
// party. The variant set is closed: AddRequest, MulRequest and
// SubRequest. Requests are immutable after construction.
type Request interface {
	isRequest()
}

// AddRequest asks the compute party to add two encrypted operands.
// N must match the modulus both ciphertexts were produced under; the
// protocol does not verify this.
type AddRequest struct {
	E1 *big.Int
	E2 *big.Int
	N  *big.Int
}

// MulRequest asks the compute party to multiply an encrypted operand by
// a plaintext scalar.
type MulRequest struct {
	Ciphertext *big.Int
	Multiplier *big.Int
	N          *big.Int
}

// SubRequest asks the compute party to subtract the second encrypted
// operand from the first.
type SubRequest struct {
	E1 *big.Int
	E2 *big.Int
	N  *big.Int
}

func (*AddRequest) isRequest() {}
func (*MulRequest) isRequest() {}
func (*SubRequest) isRequest() {}

// Response is the compute party's answer to a Request. The variant set
// is closed: AddResponse, MulResponse, SubResponse and ErrorResponse.
type Response interface {
	isResponse()
}

// AddResponse carries the encrypted sum.
type AddResponse struct {
	Result *big.Int
}

// MulResponse carries the encrypted scalar product.
type MulResponse struct {
	Result *big.Int
}

// SubResponse carries the encrypted difference.
type SubResponse struct {
	Result *big.Int
}

// ErrorResponse reports a failed computation. It carries no ciphertext
// and can never be decrypted.
type ErrorResponse struct {
	Message string
}

func (*AddResponse) isResponse()   {}
func (*MulResponse) isResponse()   {}
func (*SubResponse) isResponse()   {}
func (*ErrorResponse) isResponse() {}

// NewAddRequest encrypts m1 and m2 and builds the request asking for
// their encrypted sum.
func NewAddRequest(enc *Encryptor, m1, m2 *big.Int) (*AddRequest, error) {
	e1, err := enc.Encrypt(m1)
	if err != nil {
		return nil, err
	}
	e2, err := enc.Encrypt(m2)
	if err != nil {
		return nil, err
	}
	return &AddRequest{E1: e1, E2: e2, N: enc.pk.N}, nil
}

// NewMulRequest encrypts m and builds the request asking for its
// encrypted product with the plaintext multiplier.
func NewMulRequest(enc *Encryptor, m, multiplier *big.Int) (*MulRequest, error) {
	x, err := enc.Encrypt(m)
	if err != nil {
		return nil, err
	}
	return &MulRequest{Ciphertext: x, Multiplier: multiplier, N: enc.pk.N}, nil
}

// NewSubRequest encrypts m1 and m2 and builds the request asking for
// their encrypted difference m1 - m2.
func NewSubRequest(enc *Encryptor, m1, m2 *big.Int) (*SubRequest, error) {
	e1, err := enc.Encrypt(m1)
	if err != nil {
		return nil, err
	}
	e2, err := enc.Encrypt(m2)
	if err != nil {
		return nil, err
	}
	return &SubRequest{E1: e1, E2: e2, N: enc.pk.N}, nil
}
