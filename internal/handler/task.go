package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
	"github.com/BuzzLyutic/serverless-task-manager/pkg/respond"
)

const maxBodyBytes = 1 << 20

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	headers map[string]string
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger, headers map[string]string) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		headers: headers,
	}
}

// Routes монтирует CRUD на /tasks. Запросы без {taskId} получают 400, а не 405.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/{taskId}", h.Get)
		r.Put("/{taskId}", h.Update)
		r.Patch("/{taskId}", h.Update)
		r.Delete("/{taskId}", h.Delete)
	})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.setHeaders(w)

	body, err := h.readBody(w, r)
	if err != nil {
		h.handleErrors(w, r, service.OpCreate, "", service.MalformedBody(service.MsgMissingFields, err))
		return
	}
	in, err := decodeCreate(body)
	if err != nil {
		h.handleErrors(w, r, service.OpCreate, "", err)
		return
	}

	task, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, service.OpCreate, "", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/tasks/%s", task.TaskID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.setHeaders(w)
	taskID := chi.URLParam(r, "taskId")

	task, err := h.service.Get(r.Context(), taskID)
	if err != nil {
		h.handleErrors(w, r, service.OpGet, taskID, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.setHeaders(w)
	taskID := chi.URLParam(r, "taskId")

	body, err := h.readBody(w, r)
	if err != nil {
		h.handleErrors(w, r, service.OpUpdate, taskID, service.MalformedBody(service.MsgInvalidBody, err))
		return
	}
	patch, err := decodePatch(body)
	if err != nil {
		h.handleErrors(w, r, service.OpUpdate, taskID, err)
		return
	}

	task, err := h.service.Update(r.Context(), taskID, patch)
	if err != nil {
		h.handleErrors(w, r, service.OpUpdate, taskID, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setHeaders(w)
	taskID := chi.URLParam(r, "taskId")

	if err := h.service.Delete(r.Context(), taskID); err != nil {
		h.handleErrors(w, r, service.OpDelete, taskID, err)
		return
	}
	respond.NoContent(w, r)
}

func (h *TaskHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func (h *TaskHandler) setHeaders(w http.ResponseWriter) {
	for k, v := range h.headers {
		w.Header().Set(k, v)
	}
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, op service.Op, taskID string, err error) {
	code, msg := resolve(h.logger, op, taskID, err)
	respond.Error(w, r, code, msg)
}
