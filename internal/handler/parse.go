package handler

import (
	"bytes"
	"encoding/json"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
)

// decodeInput разбирает тело; пустое тело считается {}
func decodeInput(body []byte) (model.TaskInput, error) {
	var in model.TaskInput
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return in, nil
	}
	err := json.Unmarshal(body, &in)
	return in, err
}

func decodeCreate(body []byte) (model.TaskInput, error) {
	in, err := decodeInput(body)
	if err != nil {
		return in, service.MalformedBody(service.MsgMissingFields, err)
	}
	return in, nil
}

func decodePatch(body []byte) (model.TaskPatch, error) {
	in, err := decodeInput(body)
	if err != nil {
		return model.TaskPatch{}, service.MalformedBody(service.MsgInvalidBody, err)
	}
	return model.PatchFromInput(in), nil
}
