package solution

import (
	"encoding/json"
	"io"
)

// WriteJSON writes sol as indented JSON.
func WriteJSON(w io.Writer, sol *Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}

// ReadJSON is the inverse of WriteJSON, used by tests and by any future
// "resume from a saved solution" command.
func ReadJSON(r io.Reader) (*Solution, error) {
	var sol Solution
	dec := json.NewDecoder(r)
	if err := dec.Decode(&sol); err != nil {
		return nil, err
	}
	return &sol, nil
}
