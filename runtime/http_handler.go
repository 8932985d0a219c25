package runtime

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"
)

// executeRequest is the body accepted by POST /nodes/:id/execute.
type executeRequest struct {
	Items          []map[string]any `json:"items"`
	Parameters     map[string]any   `json:"parameters"`
	ContinueOnFail *bool            `json:"continue_on_fail"`
}

// NewHttpHandler registers the node routes on g:
//
//	POST /nodes/:id/execute          run a node preset over a batch of items
//	GET  /plugins/:plugin/description  node description published by <plugin>.describe
func NewHttpHandler(app *App, g *gin.Engine) {
	g.POST("/nodes/:id/execute", handleExecute(app))
	g.GET("/plugins/:plugin/description", handleDescribe(app))
}

func handleExecute(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		node, ok := app.Nodes[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Unknown node: " + id})
			return
		}

		var req executeRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong request body format"})
				return
			}
		}

		task := app.Container.GetTask(node.Task)
		if task == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unknown task: " + node.Task})
			return
		}

		parameters := make(map[string]any, len(node.Parameters)+len(req.Parameters))
		maps.Copy(parameters, node.Parameters)
		maps.Copy(parameters, req.Parameters)

		continueOnFail := node.ContinueOnFail
		if req.ContinueOnFail != nil {
			continueOnFail = *req.ContinueOnFail
		}

		items := make([]any, len(req.Items))
		for i, item := range req.Items {
			items[i] = item
		}

		exec := NewExecution(c.Request.Context(), app.Container)
		exec.Node = id
		exec.AddValue("request.path", c.Request.URL.Path)

		result, err := task.Execute(exec, map[string]any{
			"parameters":       parameters,
			"items":            items,
			"continue_on_fail": continueOnFail,
		})
		if err != nil {
			slog.ErrorContext(exec, "Node execution failed",
				"node", id,
				"execution_id", exec.ID,
				"error", err.Error())
			c.JSON(statusForError(err), errorBody(err, result))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func handleDescribe(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("plugin") + ".describe"
		task := app.Container.GetTask(name)
		if task == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Unknown task: " + name})
			return
		}

		exec := NewExecution(c.Request.Context(), app.Container)
		result, err := task.Execute(exec, nil)
		if err != nil {
			c.JSON(statusForError(err), errorBody(err, nil))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func statusForError(err error) int {
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		return http.StatusInternalServerError
	}
	switch taskErr.GetType() {
	case ErrorTypeUserError:
		return http.StatusBadRequest
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody keeps the records produced before the failure next to the error.
func errorBody(err error, result map[string]any) gin.H {
	body := gin.H{"message": err.Error()}

	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		if idx, ok := taskErr.GetItemIndex(); ok {
			body["item_index"] = idx
		}
		if kind, ok := taskErr.Metadata["kind"]; ok {
			body["kind"] = kind
		}
	}
	if items, ok := result["items"]; ok {
		body["items"] = items
	}
	return body
}
