// Command paillier-client performs a one-shot homomorphic computation
// against a paillier-server.
//
// The client generates the key pair, encrypts the operands, sends the
// request over TCP and decrypts the server's response. The server only
// ever sees ciphertexts.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"net"
	"os"
	"time"

	paillier "github.com/rjmholt/simple-paillier"
	"github.com/rjmholt/simple-paillier/server"
)

// Default key primes, 100 decimal digits each.
const (
	defaultP = "2193992993218604310884461864618001945131790925282531768679169054389241527895222169476723691605898517"
	defaultQ = "7212610147295474909544523785043492409969382148186765460082500085393519556525921455588705423020751421"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr    = flag.String("addr", "localhost:1337", "server address")
		op      = flag.String("op", "", `operation: "add", "mul" or "sub"`)
		a       = flag.String("a", "", "first operand (encrypted before sending)")
		b       = flag.String("b", "", "second operand (plaintext multiplier for mul, encrypted otherwise)")
		bits    = flag.Int("bits", 0, "generate a fresh random key of this size instead of the built-in primes")
		timeout = flag.Duration("timeout", 10*time.Second, "exchange timeout")
	)
	flag.Parse()

	m1, ok := new(big.Int).SetString(*a, 10)
	if !ok {
		return fmt.Errorf("operand -a %q is not an integer", *a)
	}
	m2, ok := new(big.Int).SetString(*b, 10)
	if !ok {
		return fmt.Errorf("operand -b %q is not an integer", *b)
	}

	key, err := loadKey(*bits)
	if err != nil {
		return err
	}
	enc := paillier.NewEncryptor(key.Public())

	var req paillier.Request
	switch *op {
	case "add":
		req, err = paillier.NewAddRequest(enc, m1, m2)
	case "mul":
		req, err = paillier.NewMulRequest(enc, m1, m2)
	case "sub":
		req, err = paillier.NewSubRequest(enc, m1, m2)
	default:
		return fmt.Errorf(`operation %q: choose from "add", "mul" or "sub"`, *op)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	payload, err := paillier.EncodeRequest(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	log.Printf("msg: %s", payload)

	respBytes, err := exchange(*addr, payload, *timeout)
	if err != nil {
		return err
	}
	log.Printf("response: %s", respBytes)

	resp, err := paillier.DecodeResponse(respBytes)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	result, err := paillier.NewDecryptor(key).DecryptResult(resp)
	if err != nil {
		return err
	}

	fmt.Printf("result: %s\n", result)
	return nil
}

// loadKey derives the key pair: the built-in primes by default, or a
// fresh random key when -bits is given.
func loadKey(bits int) (*paillier.PrivateKey, error) {
	if bits > 0 {
		return paillier.GenerateKey(rand.Reader, bits)
	}

	p, _ := new(big.Int).SetString(defaultP, 10)
	q, _ := new(big.Int).SetString(defaultQ, 10)
	return paillier.GenerateKeys(p, q)
}

// exchange performs the one-shot TCP exchange: send the request,
// half-close, read the complete response.
func exchange(addr string, payload []byte, timeout time.Duration) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.CloseWrite()
	}

	resp, err := io.ReadAll(io.LimitReader(conn, server.DefaultMaxMessageBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("empty response from %s", addr)
	}
	return resp, nil
}
