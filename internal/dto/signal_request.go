package dto

// SignalRequest is the JSON body sent to the actuation endpoint.
type SignalRequest struct {
	Signal string `json:"signal"`
}
