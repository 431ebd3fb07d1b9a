// EventsData is the response payload of the recent events listing.
package dto

import "signalguard/internal/model"

type EventsData struct {
	Events []EventInfo `json:"events"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
}

// EventInfo is an audit record with its detections.
type EventInfo struct {
	model.EventRecord
	Detections []model.DetectionRecord `json:"detections"`
}
