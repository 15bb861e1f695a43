package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/labstack/echo/v4"

	"github.com/akave-ai/patientingest/internal/model"
)

// fallbackBody is sent if a body cannot be encoded.
const fallbackBody = `{"message":"Internal processing error","error":"encode response body","input_records":0,"validated_records":0}`

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// JSON builds a response with status and body encoded as JSON.
func JSON(status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders(),
			Body:       fallbackBody,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       string(b),
	}
}

// OK sends a 200 response with body.
func OK(body any) events.APIGatewayProxyResponse {
	return JSON(http.StatusOK, body)
}

// BadRequest sends 400 with body.
func BadRequest(body any) events.APIGatewayProxyResponse {
	return JSON(http.StatusBadRequest, body)
}

// Error sends status with an ErrorBody. Counts are zero: these failures
// happen before records are known.
func Error(status int, message, errDetail string) events.APIGatewayProxyResponse {
	return JSON(status, model.ErrorBody{
		Message: message,
		Error:   errDetail,
	})
}

// InternalError sends 500 with message and error detail.
func InternalError(message, errDetail string) events.APIGatewayProxyResponse {
	return Error(http.StatusInternalServerError, message, errDetail)
}

// Write sends resp through an Echo context, keeping status and body as is.
func Write(c echo.Context, resp events.APIGatewayProxyResponse) error {
	for k, v := range resp.Headers {
		c.Response().Header().Set(k, v)
	}
	return c.Blob(resp.StatusCode, echo.MIMEApplicationJSON, []byte(resp.Body))
}
