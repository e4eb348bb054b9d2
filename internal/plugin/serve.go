package plugin

import (
	"encoding/json"
	"fmt"
	"io"
)

// Handler performs one plugin action. The returned data, if any, is sent
// back in Response.Data.
type Handler func(req *Request) (json.RawMessage, error)

// Serve is the plugin side of the protocol: it decodes one Request from r,
// runs h and encodes the Response to w. Handler and decode failures are
// reported in the Response; only a failed write returns an error.
func Serve(r io.Reader, w io.Writer, h Handler) error {
	var resp Response

	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		resp.Error = fmt.Sprintf("failed to decode request: %v", err)
	} else if data, err := h(&req); err != nil {
		resp.Error = fmt.Sprintf("action %s failed: %v", req.Action, err)
	} else {
		resp.Success = true
		resp.Data = data
	}

	return json.NewEncoder(w).Encode(resp)
}
