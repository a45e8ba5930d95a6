package model

import (
	"time"

	"github.com/gomlkit/gomlkit/core/data"
)

// Provenance records how a model came to be: the trainer and its
// configuration, the shape of the dataset it saw, when training happened,
// and which trainer invocation produced it. It is attached at training
// time and never interpreted by the core; it exists so a model can be
// reproduced.
type Provenance struct {
	TrainerName string
	Parameters  map[string]interface{}
	Dataset     data.Summary
	TrainedAt   time.Time
	Invocation  uint64
}

// NewProvenance snapshots trainer configuration and dataset shape at the
// start of a training run.
func NewProvenance(trainerName string, params map[string]interface{}, ds data.Summary, invocation uint64) Provenance {
	copied := make(map[string]interface{}, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return Provenance{
		TrainerName: trainerName,
		Parameters:  copied,
		Dataset:     ds,
		TrainedAt:   time.Now(),
		Invocation:  invocation,
	}
}
