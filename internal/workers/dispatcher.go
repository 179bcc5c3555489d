package workers

import (
	"context"

	"infinite-experiment/engagesync/internal/models/dtos"
)

// Dispatcher hands a batch of changed records to background processing.
// Dispatch returns as soon as the batch is scheduled; there is no handle to
// wait on and no guarantee the batch has run when it returns.
type Dispatcher interface {
	Dispatch(ctx context.Context, records []dtos.SourceRecord)
}

// BatchProcessor runs one batch through the sync pipeline
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, records []dtos.SourceRecord) []dtos.RecordResult
}

type dispatchBatch struct {
	id      string
	records []dtos.SourceRecord
}
