package view

import (
	"errors"

	"github.com/MrJamesThe3rd/spendlog/internal/client"
)

// errorText prefers the server's message over the transport detail.
func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return err.Error()
}
