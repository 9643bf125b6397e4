package worksheet

import "errors"

// ErrEmptyCompletion means the completion service returned a syntactically
// valid response whose content trims to the empty string. It is a hard
// failure: the caller reports it and lets the user resubmit.
var ErrEmptyCompletion = errors.New("resposta vazia da API ao gerar a ficha")

// TransportError wraps a network or HTTP-level failure from the completion
// service (timeout, connection refused, non-2xx status). It is propagated to
// the caller unchanged and never downgraded to fallback synthesis.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "completion transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
