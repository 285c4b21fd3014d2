package graph

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves the GraphQL endpoint.
type Handler struct {
	schema graphql.Schema
}

// NewHandler creates a Handler for schema.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Serve executes a GraphQL request taken from a JSON body (POST) or the query
// string (GET). Operation errors are reported in the response body with status 200.
func (h *Handler) Serve(c *gin.Context) {
	req, err := bindRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "query is required"}}})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	if result.HasErrors() {
		slog.Debug("graphql operation returned errors", "operation", req.OperationName, "errors", result.Errors)
	}

	c.JSON(http.StatusOK, result)
}

func bindRequest(c *gin.Context) (Request, error) {
	var req Request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if v := c.Query("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return req, err
			}
		}
		return req, nil
	}
	err := c.ShouldBindJSON(&req)
	return req, err
}
