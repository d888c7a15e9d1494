package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charliek/logscan/internal/domain"
)

// ErrorResponse is the JSON form of a command failure
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// printError writes err to w, as JSON when the output format is json
func (a *app) printError(w io.Writer, err error) {
	if a.jsonErrors() {
		resp := ErrorResponse{Error: err.Error(), Code: domain.ErrorCode(err)}
		if encErr := json.NewEncoder(w).Encode(resp); encErr == nil {
			return
		}
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
