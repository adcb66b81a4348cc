package ledger

import (
	"github.com/inboundflow/courier/pkg/repository"
)

const executionColumns = `id, session_id, stage, started_at, completed_at,
		duration_ms, success, error, input_data, output_data`

func scanExecution(sc repository.Scanner) (Execution, error) {
	var e Execution
	err := sc.Scan(
		&e.ID,
		&e.SessionID,
		&e.Stage,
		&e.StartedAt,
		&e.CompletedAt,
		&e.DurationMS,
		&e.Success,
		&e.Error,
		&e.Input,
		&e.Output,
	)
	return e, err
}
