package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskConversationFollowup = "conversations.followup"

// ConversationFollowupPayload identifies a conversation that may have gone
// quiet and should get a nudge.
type ConversationFollowupPayload struct {
	ConversationID string `json:"conversationId"`
	CompanyID      string `json:"companyId"`
	LeadID         string `json:"leadId"`
	Phone          string `json:"phone"`
}

func NewConversationFollowupTask(payload ConversationFollowupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConversationFollowup, data), nil
}

func ParseConversationFollowupPayload(task *asynq.Task) (ConversationFollowupPayload, error) {
	var payload ConversationFollowupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConversationFollowupPayload{}, err
	}
	return payload, nil
}
