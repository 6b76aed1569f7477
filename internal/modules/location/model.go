// README: Location index (states -> cities -> offices) as stored in locations.json.
package location

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sirparcel/internal/types"
)

// DocumentName is the file holding the location index.
const DocumentName = "locations.json"

var ErrNotFound = errors.New("location not found")

type Office struct {
	Address string `json:"address"`
	Contact string `json:"contact"`
}

type City struct {
	Offices []Office `json:"offices"`
}

type State struct {
	Cities types.OrderedMap[City] `json:"cities"`
}

// Index maps state names to their cities, in document order. City names are
// not unique across states; StateOf resolves a city to the first state that
// lists it.
type Index struct {
	States types.OrderedMap[State]
}

func NewIndex() Index {
	return Index{States: types.NewOrderedMap[State]()}
}

func (ix Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(ix.States)
}

func (ix *Index) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &ix.States); err != nil {
		return err
	}
	// A state without a "cities" key decodes to the zero map; normalise it so
	// a save and reload yields the same value.
	for _, name := range ix.States.Keys() {
		st, _ := ix.States.Get(name)
		if st.Cities.Len() == 0 {
			st.Cities = types.NewOrderedMap[City]()
			ix.States.Set(name, st)
		}
	}
	return nil
}

func (ix *Index) Validate() error {
	var err error
	ix.States.Range(func(state string, s State) bool {
		if strings.TrimSpace(state) == "" {
			err = errors.New("state with empty name")
			return false
		}
		s.Cities.Range(func(city string, _ City) bool {
			if strings.TrimSpace(city) == "" {
				err = fmt.Errorf("state %q has a city with an empty name", state)
				return false
			}
			return true
		})
		return err == nil
	})
	return err
}

// StateOf returns the first state, in document order, whose cities include city.
func (ix Index) StateOf(city string) (string, bool) {
	for _, state := range ix.States.Keys() {
		s, _ := ix.States.Get(state)
		if s.Cities.Has(city) {
			return state, true
		}
	}
	return "", false
}

// CityNames returns every city key under every state, in document order.
// A name listed by several states appears once per state.
func (ix Index) CityNames() []string {
	var out []string
	ix.States.Range(func(_ string, s State) bool {
		out = append(out, s.Cities.Keys()...)
		return true
	})
	return out
}
