package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/repo"
	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
)

const msgInternal = "Internal server error"

var storeMessages = map[service.Op]string{
	service.OpCreate: "Could not create task",
	service.OpGet:    "Could not fetch task",
	service.OpUpdate: "Could not update task",
	service.OpDelete: "Could not delete task",
}

// Headers - заголовки, которые добавляются к каждому ответу
func Headers(allowOrigin string) map[string]string {
	h := map[string]string{}
	if allowOrigin != "" {
		h["Access-Control-Allow-Origin"] = allowOrigin
	}
	return h
}

// resolve переводит ошибку сервиса в код и сообщение для клиента.
// Текст ошибок хранилища в ответ не попадает.
func resolve(logger *zap.Logger, op service.Op, taskID string, err error) (int, string) {
	var verr *service.ValidationError
	var serr *service.StoreError

	switch {
	case errors.As(err, &verr):
		logger.Debug("invalid request", zap.String("op", string(op)), zap.String("reason", verr.Error()))
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, repo.ErrorNotFound):
		return http.StatusNotFound, service.MsgTaskNotFound
	case errors.As(err, &serr):
		logger.Error("store error",
			zap.String("op", string(serr.Op)),
			zap.String("task_id", serr.TaskID),
			zap.Error(serr.Err),
		)
		return http.StatusInternalServerError, storeMessages[op]
	default:
		logger.Error("internal error", zap.String("op", string(op)), zap.String("task_id", taskID), zap.Error(err))
		return http.StatusInternalServerError, msgInternal
	}
}
