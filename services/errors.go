package services

import "errors"

// ErrorKind classifies workflow failures so controllers can map them to HTTP
// status codes without string matching.
type ErrorKind int

const (
	KindUnauthorized ErrorKind = iota + 1
	KindState
	KindDuplicate
	KindPayment
	KindNotFound
)

// DomainError carries the protocol reason string plus its kind. Every error
// aborts the whole enclosing transaction; there is no local recovery.
type DomainError struct {
	Kind   ErrorKind
	Reason string
}

func (e *DomainError) Error() string {
	return e.Reason
}

func authorizationError(reason string) error {
	return &DomainError{Kind: KindUnauthorized, Reason: reason}
}

func stateError(reason string) error {
	return &DomainError{Kind: KindState, Reason: reason}
}

func duplicateError(reason string) error {
	return &DomainError{Kind: KindDuplicate, Reason: reason}
}

func paymentError(reason string) error {
	return &DomainError{Kind: KindPayment, Reason: reason}
}

func notFoundError(reason string) error {
	return &DomainError{Kind: KindNotFound, Reason: reason}
}

// KindOf returns the classification of err, or 0 for infrastructure errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
