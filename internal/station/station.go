package station

import "strings"

// Station is one entry of the radio directory: a display name and a stream URL.
type Station struct {
	Name string
	URL  string
}

// Directory is a read-only set of stations. Lookup order is declaration order.
type Directory struct {
	stations []Station
}

// NewDirectory builds a directory from the given stations.
func NewDirectory(stations []Station) *Directory {
	return &Directory{stations: stations}
}

// Default returns the built-in station directory.
func Default() *Directory {
	return NewDirectory(stations)
}

// Find returns the first station whose name contains query (case-insensitive).
func (d *Directory) Find(query string) (Station, bool) {
	query = strings.ToLower(query)
	for _, st := range d.stations {
		if strings.Contains(strings.ToLower(st.Name), query) {
			return st, true
		}
	}
	return Station{}, false
}

// List returns all stations in declaration order.
func (d *Directory) List() []Station {
	out := make([]Station, len(d.stations))
	copy(out, d.stations)
	return out
}
