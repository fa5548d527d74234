package persistence

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"frontier.dev/internal/models"
)

// StateVersion is the version written in the header of every save
const StateVersion uint16 = 1

var magic = [4]byte{'F', 'R', 'N', 'T'}

var (
	// ErrVersion is returned when a save was written by an unsupported version
	ErrVersion = errors.New("unsupported save version")
	// ErrFormat is returned when a payload is not a save at all
	ErrFormat = errors.New("not a world save")
)

func init() {
	gob.Register(&models.HumanFeature{})
	gob.Register(&models.AnimalFeature{})
}

// savedNetwork is the network with its road set flattened
type savedNetwork struct {
	Railway  []models.Point
	Stations []models.StationState
	Trains   []models.TrainState
	Roads    []models.Point
}

type savedWorld struct {
	ID          uuid.UUID
	Seed        uint64
	CurrentDate models.Date

	Map        models.MapState
	Towns      []models.TownState
	Localities []models.LocalityState
	Network    savedNetwork

	Actors    []models.ActorState
	Debt      models.DebtState
	Scheduler models.SchedulerState
	Journal   models.JournalState
}

func toSaved(state *models.WorldState) *savedWorld {
	return &savedWorld{
		ID:          state.ID,
		Seed:        state.Seed,
		CurrentDate: state.CurrentDate,
		Map:         state.Map,
		Towns:       state.Towns,
		Localities:  state.Localities,
		Network: savedNetwork{
			Railway:  state.Network.Railway,
			Stations: state.Network.Stations,
			Trains:   state.Network.Trains,
			Roads:    state.Network.RoadList(),
		},
		Actors:    state.Actors,
		Debt:      state.Debt,
		Scheduler: state.Scheduler,
		Journal:   state.Journal,
	}
}

func fromSaved(saved *savedWorld) *models.WorldState {
	network := models.NewNetworkState()
	network.Railway = saved.Network.Railway
	network.Stations = saved.Network.Stations
	network.Trains = saved.Network.Trains
	for _, p := range saved.Network.Roads {
		network.Roads.Put(p)
	}

	return &models.WorldState{
		ID:          saved.ID,
		Seed:        saved.Seed,
		CurrentDate: saved.CurrentDate,
		Map:         saved.Map,
		Towns:       saved.Towns,
		Localities:  saved.Localities,
		Network:     network,
		Actors:      saved.Actors,
		Debt:        saved.Debt,
		Scheduler:   saved.Scheduler,
		Journal:     saved.Journal,
	}
}

// Encode writes a world as a header followed by a gzip compressed gob
// stream. The scheduler queue is written in heap order so a decoded
// world pops its tasks in the same order.
func Encode(w io.Writer, state *models.WorldState) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, StateVersion); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	compressed := gzip.NewWriter(w)
	if err := gob.NewEncoder(compressed).Encode(toSaved(state)); err != nil {
		return fmt.Errorf("encoding world: %w", err)
	}
	return compressed.Close()
}

// Decode reads a world written by Encode
func Decode(r io.Reader) (*models.WorldState, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", ErrFormat)
	}
	if header != magic {
		return nil, ErrFormat
	}

	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("reading header: %w", ErrFormat)
	}
	if version != StateVersion {
		return nil, fmt.Errorf("version %d: %w", version, ErrVersion)
	}

	compressed, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening payload: %w", err)
	}
	defer compressed.Close()

	var saved savedWorld
	if err := gob.NewDecoder(compressed).Decode(&saved); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}
	return fromSaved(&saved), nil
}

func encodeBytes(state *models.WorldState) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeBytes(payload []byte) (*models.WorldState, error) {
	return Decode(bytes.NewReader(payload))
}
