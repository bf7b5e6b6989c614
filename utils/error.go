package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// Calculation engine sentinels. Each failure is local to a single line
	// item or conversion call; aggregation fails closed on the first one.
	ErrorInvalidTaxClass        = errors.New("invalid tax class")
	ErrorMissingExchangeRate    = errors.New("exchange rate does not cover requested currency")
	ErrorInvalidQuantity        = errors.New("quantity must be a positive integer")
	ErrorStaleSnapshotReference = errors.New("document references an unresolvable exchange rate snapshot")
	ErrorInvalidExchangeRate    = errors.New("exchange rate must be positive")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
