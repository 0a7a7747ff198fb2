package triggers

import "errors"

// ErrTriggerNotFound untuk lookup by id yang gagal
var ErrTriggerNotFound = errors.New("trigger not found")
