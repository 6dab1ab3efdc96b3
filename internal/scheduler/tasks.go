package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/ksquared-16/alloy/internal/jobs/ports"
)

const TaskJobWriteBack = "jobs.writeback"

type JobWriteBackPayload struct {
	JobID          string `json:"jobId"`
	ContractorID   string `json:"contractorId"`
	ContractorName string `json:"contractorName"`
	Status         string `json:"status"`
	AccessMethod   string `json:"accessMethod"`
	AccessNotes    string `json:"accessNotes"`
}

func (p JobWriteBackPayload) Assignment() ports.JobAssignment {
	return ports.JobAssignment{
		ExternalJobID:  p.JobID,
		ContractorID:   p.ContractorID,
		ContractorName: p.ContractorName,
		Status:         p.Status,
		AccessMethod:   p.AccessMethod,
		AccessNotes:    p.AccessNotes,
	}
}

func NewJobWriteBackTask(payload JobWriteBackPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJobWriteBack, data), nil
}

func ParseJobWriteBackPayload(task *asynq.Task) (JobWriteBackPayload, error) {
	var payload JobWriteBackPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return JobWriteBackPayload{}, err
	}
	return payload, nil
}
