package push

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Endpoint exposes the HTTP send contract consumed by clients and backends
// that cannot talk to the provider directly. It validates the request, coerces
// the data payload to strings, and forwards to the provider exactly once.
type Endpoint struct {
	sender Sender
}

// NewEndpoint creates a new Endpoint
func NewEndpoint(sender Sender) *Endpoint {
	return &Endpoint{sender: sender}
}

// RegisterRoutes registers the send route
func (e *Endpoint) RegisterRoutes(g *echo.Group) {
	g.POST("/send", e.Send)
}

type sendNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type sendRequestBody struct {
	To           string                 `json:"to"`
	Notification *sendNotification      `json:"notification"`
	DataPayload  map[string]interface{} `json:"dataPayload"`
	Priority     string                 `json:"priority"`
}

type sendErrorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send handles one push send request
func (e *Endpoint) Send(c echo.Context) error {
	var req sendRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, sendErrorBody{Code: "invalid-argument", Message: "invalid request payload"})
	}

	if req.To == "" || req.Notification == nil {
		return c.JSON(http.StatusBadRequest, sendErrorBody{Code: "invalid-argument", Message: "to and notification are required"})
	}
	if req.Notification.Title == "" || req.Notification.Body == "" {
		return c.JSON(http.StatusBadRequest, sendErrorBody{Code: "invalid-argument", Message: "notification.title and notification.body are required"})
	}

	// Provider requires string values in the data payload
	data := make(map[string]string, len(req.DataPayload))
	for k, v := range req.DataPayload {
		data[k] = fmt.Sprint(v)
	}

	priority := req.Priority
	if priority == "" {
		priority = "high"
	}

	messageID, err := e.sender.Send(c.Request().Context(), SendRequest{
		To:       req.To,
		Title:    req.Notification.Title,
		Body:     req.Notification.Body,
		Data:     data,
		Priority: priority,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, sendErrorBody{Code: "internal", Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "messageId": messageID})
}
