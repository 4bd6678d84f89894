package respond

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Proxy собирает ответ API Gateway с JSON-телом. headers добавляются к Content-Type.
func Proxy(code int, data interface{}, headers map[string]string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		code = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    withContentType(headers),
		Body:       string(body),
	}
}

func ProxyError(code int, message string, headers map[string]string) events.APIGatewayProxyResponse {
	return Proxy(code, map[string]string{"error": message}, headers)
}

// ProxyNoContent - 204 с пустым телом
func ProxyNoContent(headers map[string]string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    copyHeaders(headers),
		Body:       "",
	}
}

func withContentType(headers map[string]string) map[string]string {
	h := copyHeaders(headers)
	h["Content-Type"] = "application/json"
	return h
}

func copyHeaders(headers map[string]string) map[string]string {
	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	return h
}
