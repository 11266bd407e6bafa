package server

import (
	"github.com/notationkit/stave/pkg/score"
)

// scoreSchemaVersion tracks the score response payload structure.
// v1: raw score fields. v2: staves carry active_clef.
const scoreSchemaVersion = 2

// staffResponse is a staff with its initial clef resolved, so clients
// can draw the staff without replaying structural events.
type staffResponse struct {
	ID         string             `json:"id"`
	ActiveClef score.Clef         `json:"active_clef"`
	Events     []score.StaffEvent `json:"staff_structural_events"`
	Voices     []*score.Voice     `json:"voices"`
}

type instrumentResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Kind   string          `json:"instrument_type"`
	Staves []staffResponse `json:"staves"`
}

type scoreResponse struct {
	ID            string               `json:"id"`
	SchemaVersion int                  `json:"schema_version"`
	Events        []score.GlobalEvent  `json:"global_structural_events"`
	Instruments   []instrumentResponse `json:"instruments"`
}

func newScoreResponse(sc *score.Score) scoreResponse {
	instruments := make([]instrumentResponse, len(sc.Instruments))
	for i, inst := range sc.Instruments {
		staves := make([]staffResponse, len(inst.Staves))
		for j, staff := range inst.Staves {
			staves[j] = staffResponse{
				ID:         staff.ID,
				ActiveClef: staff.ClefAt(0),
				Events:     staff.Events,
				Voices:     staff.Voices,
			}
		}
		instruments[i] = instrumentResponse{
			ID:     inst.ID,
			Name:   inst.Name,
			Kind:   inst.Kind,
			Staves: staves,
		}
	}
	return scoreResponse{
		ID:            sc.ID,
		SchemaVersion: scoreSchemaVersion,
		Events:        sc.Events,
		Instruments:   instruments,
	}
}
