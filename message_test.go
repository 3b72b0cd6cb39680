package paillier

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	x, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "not an integer: %q", s)
	return x
}

func TestRequestWireFormat(t *testing.T) {
	req := &AddRequest{
		E1: big.NewInt(5),
		E2: big.NewInt(12),
		N:  big.NewInt(323),
	}

	data, err := EncodeRequest(req)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"ADD","e1":5,"e2":12,"n":323}`, string(data))
}

func TestRequestRoundTrip(t *testing.T) {
	// 100-digit operands must survive the trip bit-for-bit.
	huge1 := mustInt(t, "2193992993218604310884461864618001945131790925282531768679169054389241527895222169476723691605898517")
	huge2 := mustInt(t, "7212610147295474909544523785043492409969382148186765460082500085393519556525921455588705423020751421")

	requests := []Request{
		&AddRequest{E1: big.NewInt(5), E2: big.NewInt(12), N: big.NewInt(323)},
		&AddRequest{E1: huge1, E2: huge2, N: new(big.Int).Mul(huge1, huge2)},
		&MulRequest{Ciphertext: huge1, Multiplier: big.NewInt(-3), N: huge2},
		&SubRequest{E1: huge2, E2: huge1, N: big.NewInt(323)},
	}

	for _, req := range requests {
		data, err := EncodeRequest(req)
		require.NoError(t, err)

		decoded, err := DecodeRequest(data)
		require.NoError(t, err)

		switch want := req.(type) {
		case *AddRequest:
			got := decoded.(*AddRequest)
			assert.Zero(t, want.E1.Cmp(got.E1))
			assert.Zero(t, want.E2.Cmp(got.E2))
			assert.Zero(t, want.N.Cmp(got.N))
		case *MulRequest:
			got := decoded.(*MulRequest)
			assert.Zero(t, want.Ciphertext.Cmp(got.Ciphertext))
			assert.Zero(t, want.Multiplier.Cmp(got.Multiplier))
			assert.Zero(t, want.N.Cmp(got.N))
		case *SubRequest:
			got := decoded.(*SubRequest)
			assert.Zero(t, want.E1.Cmp(got.E1))
			assert.Zero(t, want.E2.Cmp(got.E2))
			assert.Zero(t, want.N.Cmp(got.N))
		}
	}
}

func TestDecodeRequestStringIntegers(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":"ADD","e1":"5","e2":"12","n":"323"}`))
	require.NoError(t, err)

	add, ok := req.(*AddRequest)
	require.True(t, ok)
	assert.EqualValues(t, 5, add.E1.Int64())
	assert.EqualValues(t, 12, add.E2.Int64())
	assert.EqualValues(t, 323, add.N.Int64())
}

func TestDecodeRequestErrors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantField string
	}{
		{"NotJSON", `not json at all`, ""},
		{"NoType", `{"e1":5,"e2":12,"n":323}`, "type"},
		{"TypeNotString", `{"type":5}`, "type"},
		{"UnknownType", `{"type":"FOO"}`, "type"},
		{"AddMissingE1", `{"type":"ADD"}`, "e1"},
		{"AddMissingE2", `{"type":"ADD","e1":5}`, "e2"},
		{"AddMissingN", `{"type":"ADD","e1":5,"e2":12}`, "n"},
		{"AddFloatE1", `{"type":"ADD","e1":1.5,"e2":12,"n":323}`, "e1"},
		{"MulMissingCiphertext", `{"type":"MUL"}`, "ciphertext"},
		{"MulMissingMultiplier", `{"type":"MUL","ciphertext":7}`, "multiplier"},
		{"MulMissingN", `{"type":"MUL","ciphertext":7,"multiplier":3}`, "n"},
		{"SubMissingE2", `{"type":"SUB","e1":5}`, "e2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tc.input))
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.wantField, parseErr.Field)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	huge := mustInt(t, "15824567297100725918508604813161629611126178599005853514449766915589725467835221794889897235117378157")

	responses := []Response{
		&AddResponse{Result: big.NewInt(17)},
		&MulResponse{Result: huge},
		&SubResponse{Result: big.NewInt(316)},
		&ErrorResponse{Message: `paillier: no "e2" field in message`},
	}

	for _, resp := range responses {
		data, err := EncodeResponse(resp)
		require.NoError(t, err)

		decoded, err := DecodeResponse(data)
		require.NoError(t, err)
		require.IsType(t, resp, decoded)

		switch want := resp.(type) {
		case *AddResponse:
			assert.Zero(t, want.Result.Cmp(decoded.(*AddResponse).Result))
		case *MulResponse:
			assert.Zero(t, want.Result.Cmp(decoded.(*MulResponse).Result))
		case *SubResponse:
			assert.Zero(t, want.Result.Cmp(decoded.(*SubResponse).Result))
		case *ErrorResponse:
			assert.Equal(t, want.Message, decoded.(*ErrorResponse).Message)
		}
	}
}

func TestErrorResponseWireFormat(t *testing.T) {
	data, err := EncodeResponse(&ErrorResponse{Message: "boom"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"ERROR","result":"boom"}`, string(data))
}

func TestDecodeResponseErrors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantField string
	}{
		{"NoType", `{"result":5}`, "type"},
		{"UnknownType", `{"type":"FOO","result":5}`, "type"},
		{"MissingResult", `{"type":"ADD_RESP"}`, "result"},
		{"FloatResult", `{"type":"SUB_RESP","result":1.5}`, "result"},
		{"ErrorResultNotString", `{"type":"ERROR","result":5}`, "result"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tc.input))
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.wantField, parseErr.Field)
		})
	}
}

func TestEncodeNilField(t *testing.T) {
	// Encoding a request with a nil field must fail, not emit garbage.
	_, err := EncodeRequest(&AddRequest{E1: big.NewInt(5)})
	assert.Error(t, err)
}

func TestParseErrorIsNotComputationError(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"type":"ADD","e1":5}`))
	require.Error(t, err)

	var compErr *ComputationError
	assert.False(t, errors.As(err, &compErr))
}
