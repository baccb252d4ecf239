package gateway

import (
	"encoding/json"
	"reflect"

	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

// Result is the envelope every gateway operation returns. Exactly one of
// Data or Error is meaningful, selected by Success.
type Result struct {
	Success bool
	Data    any
	Error   string

	cause error
}

func success(data any) Result {
	return Result{Success: true, Data: data}
}

func failure(err error) Result {
	if err == nil {
		err = pkgerrors.New(pkgerrors.CodeInternal, "unknown failure")
	}
	msg := err.Error()
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		msg = typed.Message()
	}
	return Result{Success: false, Error: msg, cause: err}
}

// Failure wraps err in a failed Result for callers outside the gateway.
func Failure(err error) Result {
	return failure(err)
}

// InvalidOperation is returned for unknown operations and unparsable arguments.
func InvalidOperation() Result {
	return failure(pkgerrors.New(pkgerrors.CodeValidation, "Invalid operation"))
}

// Err returns the classified failure, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return r.cause
}

// Empty reports a successful result whose data is an empty list, the
// gateway's way of saying no record matched.
func (r Result) Empty() bool {
	if !r.Success || r.Data == nil {
		return r.Success
	}
	v := reflect.ValueOf(r.Data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len() == 0
	}
	return false
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(successEnvelope{Success: true, Data: r.Data})
	}
	return json.Marshal(failureEnvelope{Success: false, Error: r.Error})
}
