package gas

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/nasa7.yaml
var defaultThermo []byte

// Species holds NASA 7-coefficient thermodynamic data for one species.
type Species struct {
	Name      string     `yaml:"name"`
	MolarMass float64    `yaml:"molar-mass"`
	Ranges    []float64  `yaml:"temperature-ranges"`
	Low       [7]float64 `yaml:"low"`
	High      [7]float64 `yaml:"high"`
}

func (s *Species) coeffs(t float64) *[7]float64 {
	if t < s.Ranges[1] {
		return &s.Low
	}
	return &s.High
}

// CpR returns cp/R at temperature t.
func (s *Species) CpR(t float64) float64 {
	a := s.coeffs(t)
	return a[0] + t*(a[1]+t*(a[2]+t*(a[3]+t*a[4])))
}

// HRT returns h/(RT) at temperature t.
func (s *Species) HRT(t float64) float64 {
	a := s.coeffs(t)
	return a[0] + t*(a[1]/2+t*(a[2]/3+t*(a[3]/4+t*a[4]/5))) + a[5]/t
}

// SR returns the standard-state s/R at temperature t.
func (s *Species) SR(t float64) float64 {
	a := s.coeffs(t)
	return a[0]*math.Log(t) + t*(a[1]+t*(a[2]/2+t*(a[3]/3+t*a[4]/4))) + a[6]
}

func (s *Species) validate() error {
	if s.Name == "" {
		return fmt.Errorf("species without name")
	}
	if s.MolarMass <= 0 {
		return fmt.Errorf("species %s: molar mass must be positive", s.Name)
	}
	if len(s.Ranges) != 3 || !(s.Ranges[0] > 0 && s.Ranges[0] < s.Ranges[1] && s.Ranges[1] < s.Ranges[2]) {
		return fmt.Errorf("species %s: temperature-ranges must be three increasing positive values", s.Name)
	}
	return nil
}

// Database is a set of species indexed by upper-case name.
type Database struct {
	species map[string]*Species
	names   []string
}

type databaseFile struct {
	Species []*Species `yaml:"species"`
}

// ParseDatabase decodes a YAML species file.
func ParseDatabase(data []byte) (*Database, error) {
	var f databaseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse thermo data: %w", err)
	}
	if len(f.Species) == 0 {
		return nil, fmt.Errorf("parse thermo data: no species defined")
	}
	db := &Database{species: make(map[string]*Species, len(f.Species))}
	for _, sp := range f.Species {
		if err := sp.validate(); err != nil {
			return nil, err
		}
		key := strings.ToUpper(sp.Name)
		if _, dup := db.species[key]; dup {
			return nil, fmt.Errorf("species %s defined twice", sp.Name)
		}
		db.species[key] = sp
		db.names = append(db.names, sp.Name)
	}
	sort.Strings(db.names)
	return db, nil
}

// LoadDatabase reads a YAML species file from disk.
func LoadDatabase(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDatabase(data)
}

var (
	defaultOnce sync.Once
	defaultDB   *Database
)

// Default returns the built-in database. It is read-only and safe to share.
func Default() *Database {
	defaultOnce.Do(func() {
		db, err := ParseDatabase(defaultThermo)
		if err != nil {
			panic(err)
		}
		defaultDB = db
	})
	return defaultDB
}

// Lookup finds a species by case-insensitive name.
func (db *Database) Lookup(name string) (*Species, bool) {
	sp, ok := db.species[strings.ToUpper(strings.TrimSpace(name))]
	return sp, ok
}

// Names lists species names in sorted order.
func (db *Database) Names() []string {
	out := make([]string, len(db.names))
	copy(out, db.names)
	return out
}
