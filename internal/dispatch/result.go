package dispatch

// Result is the uniform envelope every dispatch returns. Failures carry an
// error message; the route trace is attached according to the trace policy.
type Result struct {
	Success              bool           `json:"success"`
	Data                 map[string]any `json:"data,omitempty"`
	Error                string         `json:"error,omitempty"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	RouteTrace           map[string]any `json:"route_trace,omitempty"`
}

// resultFromMap reads a bridge response envelope into a Result.
func resultFromMap(m map[string]any) Result {
	var r Result
	r.Success, _ = m["success"].(bool)
	if d, ok := m["data"].(map[string]any); ok {
		r.Data = d
	}
	if e, ok := m["error"].(string); ok {
		r.Error = e
	}
	r.RequiresConfirmation, _ = m["requires_confirmation"].(bool)
	return r
}
