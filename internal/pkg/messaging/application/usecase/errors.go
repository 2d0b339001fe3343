package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Safe to retry the whole operation.
var ErrPersistence = fmt.Errorf("messaging use case persistence error")
