package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// ErrorType classifies a failed call.
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeConnection ErrorType = "connection"
	ErrorTypeRPC        ErrorType = "rpc"
	ErrorTypeParseError ErrorType = "parse"
	ErrorTypeOther      ErrorType = "other"
)

// TransportError is any failure talking to the node.
type TransportError struct {
	Method string
	Type   ErrorType
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Method, e.Type, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(method string, err error) *TransportError {
	return &TransportError{Method: method, Type: classifyError(err), Err: err}
}

func classifyError(err error) ErrorType {
	var (
		rpcErr    gethrpc.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.As(err, &rpcErr):
		return ErrorTypeRPC
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return ErrorTypeParseError
	case errors.As(err, &netErr), errors.Is(err, gethrpc.ErrClientQuit), errors.Is(err, net.ErrClosed):
		return ErrorTypeConnection
	default:
		return ErrorTypeOther
	}
}
