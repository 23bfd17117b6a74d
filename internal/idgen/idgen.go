package idgen

import (
	"github.com/google/uuid"

	"github.com/viant/custodian/model"
)

// NewFunc returns a new globally unique identifier. It is a variable so
// tests can stub it.
var NewFunc = func() model.ID { return model.ID(uuid.New()) }

func New() model.ID { return NewFunc() }
