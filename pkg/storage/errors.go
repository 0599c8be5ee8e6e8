package storage

import "errors"

// ErrTransactionNotFound is returned when a transaction is absent or its TTL has elapsed.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrTransactionExists is returned when creating a transaction with an id that is already present.
var ErrTransactionExists = errors.New("transaction already exists")
