package models

import (
	"testing"
	"time"
)

func TestStationOccupied(t *testing.T) {
	playerID := "p-1"
	gameID := "g-1"
	start := time.Now().UTC()

	tests := []struct {
		name    string
		station Station
		want    bool
	}{
		{
			name:    "available",
			station: Station{Status: StationAvailable},
			want:    false,
		},
		{
			name: "fully occupied",
			station: Station{
				Status:          StationOccupied,
				CurrentPlayerID: &playerID,
				CurrentGameID:   &gameID,
				StartTime:       &start,
			},
			want: true,
		},
		{
			name: "occupied without start time is corrupted",
			station: Station{
				Status:          StationOccupied,
				CurrentPlayerID: &playerID,
				CurrentGameID:   &gameID,
			},
			want: false,
		},
		{
			name: "occupied without player is corrupted",
			station: Station{
				Status:        StationOccupied,
				CurrentGameID: &gameID,
				StartTime:     &start,
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.station.Occupied(); got != tc.want {
				t.Fatalf("Occupied() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStationValidate(t *testing.T) {
	if err := (&Station{Name: "Console 1"}).Validate(); err != nil {
		t.Fatalf("valid station rejected: %v", err)
	}
	if err := (&Station{}).Validate(); err == nil {
		t.Fatal("blank name must be rejected")
	}
}
