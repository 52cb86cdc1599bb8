package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

// fakeRentalStore is an in-memory RentalStore mirroring the SQL repository's
// transition guards.
type fakeRentalStore struct {
	mu       sync.Mutex
	stations map[string]*models.Station
	games    map[string]*models.Game
	players  map[string]*models.Player
	sessions []*models.Session
}

func newFakeRentalStore() *fakeRentalStore {
	return &fakeRentalStore{
		stations: make(map[string]*models.Station),
		games:    make(map[string]*models.Game),
		players:  make(map[string]*models.Player),
	}
}

func (f *fakeRentalStore) GetStation(_ context.Context, id string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	copied := *station
	return &copied, nil
}

func (f *fakeRentalStore) GetGame(_ context.Context, id string) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (f *fakeRentalStore) GetPlayer(_ context.Context, id string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	player, ok := f.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (f *fakeRentalStore) OccupyStation(_ context.Context, stationID, playerID, gameID string, start time.Time, prepaidUnits int) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[stationID]
	if !ok || station.Status != models.StationAvailable {
		return nil, repository.ErrStationConflict
	}
	station.Status = models.StationOccupied
	station.CurrentPlayerID = &playerID
	station.CurrentGameID = &gameID
	station.StartTime = &start
	station.PrepaidUnits = prepaidUnits
	copied := *station
	return &copied, nil
}

func (f *fakeRentalStore) ReleaseStation(_ context.Context, stationID string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[stationID]
	if !ok || station.Status != models.StationOccupied {
		return nil, repository.ErrStationConflict
	}
	f.clearLocked(station)
	copied := *station
	return &copied, nil
}

func (f *fakeRentalStore) CompleteRental(_ context.Context, session *models.Session) (*models.Session, *models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[session.StationID]
	if !ok || station.Status != models.StationOccupied {
		return nil, nil, repository.ErrStationConflict
	}
	player, ok := f.players[session.PlayerID]
	if !ok {
		return nil, nil, repository.ErrPlayerNotFound
	}

	session.ID = fmt.Sprintf("session-%d", len(f.sessions)+1)
	session.CreatedAt = session.EndTime
	f.sessions = append(f.sessions, session)

	player.ApplyCompletion()
	f.clearLocked(station)

	playerCopy := *player
	return session, &playerCopy, nil
}

func (f *fakeRentalStore) ActiveStations(_ context.Context) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Station
	for _, station := range f.stations {
		if station.Status == models.StationOccupied {
			active = append(active, *station)
		}
	}
	return active, nil
}

func (f *fakeRentalStore) clearLocked(station *models.Station) {
	station.Status = models.StationAvailable
	station.CurrentPlayerID = nil
	station.CurrentGameID = nil
	station.StartTime = nil
	station.PrepaidUnits = 1
}

func (f *fakeRentalStore) addStation(id string) *models.Station {
	station := &models.Station{
		ID:           id,
		Name:         "Station " + id,
		Status:       models.StationAvailable,
		PrepaidUnits: 1,
	}
	f.stations[id] = station
	return station
}

func (f *fakeRentalStore) addGame(id string, mode models.PricingMode, price int64) *models.Game {
	game := &models.Game{
		ID:        id,
		Title:     "Game " + id,
		Mode:      mode,
		UnitPrice: decimal.NewFromInt(price),
	}
	f.games[id] = game
	return game
}

func (f *fakeRentalStore) addPlayer(id string) *models.Player {
	player := &models.Player{ID: id, Name: "Player " + id}
	f.players[id] = player
	return player
}

func (f *fakeRentalStore) occupy(stationID, playerID, gameID string, startedAgo time.Duration, prepaidUnits int) {
	station := f.stations[stationID]
	start := time.Now().UTC().Add(-startedAgo)
	station.Status = models.StationOccupied
	station.CurrentPlayerID = &playerID
	station.CurrentGameID = &gameID
	station.StartTime = &start
	station.PrepaidUnits = prepaidUnits
}

func newTestService(store *fakeRentalStore) *RentalService {
	return NewRentalService(store, nil, zap.NewNop())
}

func TestStartOccupiesStation(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	svc := newTestService(store)

	station, err := svc.Start(context.Background(), StartRentalInput{
		StationID:    "st-1",
		PlayerID:     "p-1",
		GameID:       "g-1",
		PrepaidUnits: 2,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !station.Occupied() {
		t.Fatal("station should be occupied with all occupancy fields set")
	}
	if station.PrepaidUnits != 2 {
		t.Fatalf("prepaid units = %d, want 2", station.PrepaidUnits)
	}
	if station.CurrentPlayer == nil || station.CurrentPlayer.ID != "p-1" {
		t.Fatal("current player reference not resolved")
	}
	if station.CurrentGame == nil || station.CurrentGame.ID != "g-1" {
		t.Fatal("current game reference not resolved")
	}
}

func TestStartAlreadyOccupied(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	store.addPlayer("p-2")
	store.occupy("st-1", "p-1", "g-1", 5*time.Minute, 1)
	svc := newTestService(store)

	_, err := svc.Start(context.Background(), StartRentalInput{
		StationID:    "st-1",
		PlayerID:     "p-2",
		GameID:       "g-1",
		PrepaidUnits: 1,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	station := store.stations["st-1"]
	if *station.CurrentPlayerID != "p-1" {
		t.Fatal("losing start must leave the existing rental untouched")
	}
}

func TestStartUnknownReferences(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	svc := newTestService(store)

	tests := []struct {
		name  string
		input StartRentalInput
		want  error
	}{
		{
			name:  "unknown station",
			input: StartRentalInput{StationID: "nope", PlayerID: "p-1", GameID: "g-1", PrepaidUnits: 1},
			want:  repository.ErrStationNotFound,
		},
		{
			name:  "unknown player",
			input: StartRentalInput{StationID: "st-1", PlayerID: "nope", GameID: "g-1", PrepaidUnits: 1},
			want:  repository.ErrPlayerNotFound,
		},
		{
			name:  "unknown game",
			input: StartRentalInput{StationID: "st-1", PlayerID: "p-1", GameID: "nope", PrepaidUnits: 1},
			want:  repository.ErrGameNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Start(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestStartRejectsBadInput(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	svc := newTestService(store)

	tests := []struct {
		name  string
		input StartRentalInput
	}{
		{name: "zero prepaid units", input: StartRentalInput{StationID: "st-1", PlayerID: "p-1", GameID: "g-1"}},
		{name: "negative prepaid units", input: StartRentalInput{StationID: "st-1", PlayerID: "p-1", GameID: "g-1", PrepaidUnits: -3}},
		{name: "blank station id", input: StartRentalInput{StationID: "  ", PlayerID: "p-1", GameID: "g-1", PrepaidUnits: 1}},
		{name: "blank player id", input: StartRentalInput{StationID: "st-1", GameID: "g-1", PrepaidUnits: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Start(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestStopCreatesSessionAndFreesStation(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	store.occupy("st-1", "p-1", "g-1", 25*time.Minute, 1)
	svc := newTestService(store)

	session, err := svc.Stop(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(store.sessions) != 1 {
		t.Fatalf("sessions persisted = %d, want exactly 1", len(store.sessions))
	}
	// 25 elapsed minutes, 23 billable, two 15-minute intervals.
	if want := decimal.NewFromInt(20); !session.Charge.Equal(want) {
		t.Fatalf("charge = %s, want %s", session.Charge, want)
	}
	if session.EndTime.Before(session.StartTime) {
		t.Fatal("session end must not precede its start")
	}

	station := store.stations["st-1"]
	if station.Status != models.StationAvailable {
		t.Fatalf("station status = %s, want available", station.Status)
	}
	if station.CurrentPlayerID != nil || station.CurrentGameID != nil || station.StartTime != nil {
		t.Fatal("occupancy fields must be cleared after stop")
	}
	if station.PrepaidUnits != 1 {
		t.Fatalf("prepaid units = %d, want reset to 1", station.PrepaidUnits)
	}

	player := store.players["p-1"]
	if player.GamesCompleted != 1 || player.LoyaltyPoints != 1 {
		t.Fatalf("loyalty counters = %d/%d, want 1/1", player.GamesCompleted, player.LoyaltyPoints)
	}
}

func TestStopAppliesPrepaidFloor(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingFlatPerSession, 30)
	store.addPlayer("p-1")
	store.occupy("st-1", "p-1", "g-1", 5*time.Minute, 4)
	svc := newTestService(store)

	session, err := svc.Stop(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if want := decimal.NewFromInt(120); !session.Charge.Equal(want) {
		t.Fatalf("charge = %s, want %s", session.Charge, want)
	}
}

func TestStopRewardThreshold(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingFlatPerSession, 30)
	player := store.addPlayer("p-1")
	player.GamesCompleted = 9
	player.LoyaltyPoints = 9
	store.occupy("st-1", "p-1", "g-1", 10*time.Minute, 1)
	svc := newTestService(store)

	if _, err := svc.Stop(context.Background(), "st-1"); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if player.GamesCompleted != 10 || player.LoyaltyPoints != 10 {
		t.Fatalf("counters = %d/%d, want 10/10", player.GamesCompleted, player.LoyaltyPoints)
	}
	if player.RewardsEarned != 1 {
		t.Fatalf("rewards earned = %d, want 1", player.RewardsEarned)
	}
}

func TestStopOnAvailableStation(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	svc := newTestService(store)

	if _, err := svc.Stop(context.Background(), "st-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if len(store.sessions) != 0 {
		t.Fatal("no session may be created by a failed stop")
	}
}

func TestStopCorruptedStation(t *testing.T) {
	store := newFakeRentalStore()
	station := store.addStation("st-1")
	playerID := "p-1"
	gameID := "g-1"
	station.Status = models.StationOccupied
	station.CurrentPlayerID = &playerID
	station.CurrentGameID = &gameID
	// start time missing: corrupted occupancy, never billed
	svc := newTestService(store)

	if _, err := svc.Stop(context.Background(), "st-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelSkipsBillingAndLoyalty(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	store.occupy("st-1", "p-1", "g-1", 45*time.Minute, 3)
	svc := newTestService(store)

	station, err := svc.Cancel(context.Background(), "st-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if len(store.sessions) != 0 {
		t.Fatal("cancel must not create a session")
	}
	player := store.players["p-1"]
	if player.GamesCompleted != 0 || player.LoyaltyPoints != 0 || player.RewardsEarned != 0 {
		t.Fatal("cancel must not touch loyalty counters")
	}
	if station.Status != models.StationAvailable || station.PrepaidUnits != 1 {
		t.Fatal("cancel must fully reset the station")
	}
}

func TestCancelOnAvailableStation(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	svc := newTestService(store)

	if _, err := svc.Cancel(context.Background(), "st-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestActiveRentalsFallsBackToStore(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addStation("st-2")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	store.occupy("st-1", "p-1", "g-1", 20*time.Minute, 2)
	svc := newTestService(store) // nil cache forces the database path

	rentals, err := svc.ActiveRentals(context.Background())
	if err != nil {
		t.Fatalf("ActiveRentals: %v", err)
	}
	if len(rentals) != 1 {
		t.Fatalf("active rentals = %d, want 1", len(rentals))
	}
	if rentals[0].StationID != "st-1" || rentals[0].PlayerID != "p-1" || rentals[0].PrepaidUnits != 2 {
		t.Fatalf("unexpected rental snapshot: %+v", rentals[0])
	}
}

func TestConcurrentStopsProduceOneSession(t *testing.T) {
	store := newFakeRentalStore()
	store.addStation("st-1")
	store.addGame("g-1", models.PricingPerInterval, 10)
	store.addPlayer("p-1")
	store.occupy("st-1", "p-1", "g-1", 10*time.Minute, 1)
	svc := newTestService(store)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Stop(context.Background(), "st-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("successful stops = %d, want exactly 1", succeeded)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("sessions persisted = %d, want exactly 1", len(store.sessions))
	}
}
