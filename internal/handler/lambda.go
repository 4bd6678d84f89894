package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
	"github.com/BuzzLyutic/serverless-task-manager/pkg/respond"
)

// LambdaFunc - сигнатура обработчика для lambda.Start
type LambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LambdaHandler обслуживает события API Gateway (REST, proxy integration).
// Ошибки всегда превращаются в ответ, наружу error не возвращается.
type LambdaHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	headers map[string]string
}

func NewLambdaHandler(srv *service.TaskService, logger *zap.Logger, headers map[string]string) *LambdaHandler {
	return &LambdaHandler{
		service: srv,
		logger:  logger,
		headers: headers,
	}
}

// LambdaRequestID использует AwsRequestID вызова как taskId, вне Lambda - UUID
func LambdaRequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return service.NewID(ctx)
}

// Operation возвращает обработчик для развертывания "одна функция на операцию".
// Пустое имя - роутер по HTTP-методу.
func (h *LambdaHandler) Operation(name string) (LambdaFunc, error) {
	switch service.Op(name) {
	case "":
		return h.Route, nil
	case service.OpCreate:
		return h.Create, nil
	case service.OpGet:
		return h.Get, nil
	case service.OpUpdate:
		return h.Update, nil
	case service.OpDelete:
		return h.Delete, nil
	}
	return nil, fmt.Errorf("unknown operation: %s", name)
}

func (h *LambdaHandler) Route(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodPost:
		return h.Create(ctx, req)
	case http.MethodGet:
		return h.Get(ctx, req)
	case http.MethodPut, http.MethodPatch:
		return h.Update(ctx, req)
	case http.MethodDelete:
		return h.Delete(ctx, req)
	}
	return respond.ProxyError(http.StatusMethodNotAllowed, "Method not allowed", h.headers), nil
}

func (h *LambdaHandler) Create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return h.fail(ctx, service.OpCreate, "", service.MalformedBody(service.MsgMissingFields, err)), nil
	}
	in, err := decodeCreate(body)
	if err != nil {
		return h.fail(ctx, service.OpCreate, "", err), nil
	}

	task, err := h.service.Create(ctx, in)
	if err != nil {
		return h.fail(ctx, service.OpCreate, "", err), nil
	}
	return respond.Proxy(http.StatusCreated, task, h.headers), nil
}

func (h *LambdaHandler) Get(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	taskID := req.PathParameters["taskId"]

	task, err := h.service.Get(ctx, taskID)
	if err != nil {
		return h.fail(ctx, service.OpGet, taskID, err), nil
	}
	return respond.Proxy(http.StatusOK, task, h.headers), nil
}

func (h *LambdaHandler) Update(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	taskID := req.PathParameters["taskId"]

	body, err := requestBody(req)
	if err != nil {
		return h.fail(ctx, service.OpUpdate, taskID, service.MalformedBody(service.MsgInvalidBody, err)), nil
	}
	patch, err := decodePatch(body)
	if err != nil {
		return h.fail(ctx, service.OpUpdate, taskID, err), nil
	}

	task, err := h.service.Update(ctx, taskID, patch)
	if err != nil {
		return h.fail(ctx, service.OpUpdate, taskID, err), nil
	}
	return respond.Proxy(http.StatusOK, task, h.headers), nil
}

func (h *LambdaHandler) Delete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	taskID := req.PathParameters["taskId"]

	if err := h.service.Delete(ctx, taskID); err != nil {
		return h.fail(ctx, service.OpDelete, taskID, err), nil
	}
	return respond.ProxyNoContent(h.headers), nil
}

func (h *LambdaHandler) fail(ctx context.Context, op service.Op, taskID string, err error) events.APIGatewayProxyResponse {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With(zap.String("aws_request_id", lc.AwsRequestID))
	}
	code, msg := resolve(logger, op, taskID, err)
	return respond.ProxyError(code, msg, h.headers)
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}
