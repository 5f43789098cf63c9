package scheduler

import (
	"encoding/json"

	"realty_site_backend/internal/sheets"

	"github.com/hibiken/asynq"
)

const TaskSheetsSyncLead = "sheets.sync_lead"

func NewSheetsSyncTask(row sheets.LeadRow) (*asynq.Task, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSheetsSyncLead, data), nil
}

func ParseSheetsSyncPayload(task *asynq.Task) (sheets.LeadRow, error) {
	var row sheets.LeadRow
	if err := json.Unmarshal(task.Payload(), &row); err != nil {
		return sheets.LeadRow{}, err
	}
	return row, nil
}
