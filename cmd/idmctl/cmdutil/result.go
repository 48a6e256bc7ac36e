package cmdutil

import (
	"fmt"

	"github.com/nyxgate/idmbroker/internal/protocol/idm"
)

// DecodeAndPrintError decodes an ERROR response payload and returns it as a
// Go error, so callers can simply `return cmdutil.DecodeAndPrintError(...)`
// from a cobra RunE.
func DecodeAndPrintError(payload []byte) error {
	resp, err := idm.DecodeErrorResponse(payload)
	if err != nil {
		return fmt.Errorf("decode error response: %w", err)
	}
	return fmt.Errorf("broker error: %s (kind=%s driver_code=%d)", resp.Message, resp.Kind, resp.DriverCode)
}
