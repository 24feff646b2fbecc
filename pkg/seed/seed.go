// Package seed defines the sources.yaml format used to seed languages,
// translation sources and reciters during corpus population. The package
// is pure; loading the file happens in internal/iopopulate.
package seed

// Config is the root of a sources.yaml file.
type Config struct {
	Languages []Language `yaml:"languages"`
	Sources   []Source   `yaml:"sources"`
	Reciters  []Reciter  `yaml:"reciters"`
}

// Language seeds one translation language.
type Language struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
	// Direction is "ltr" or "rtl"; empty defaults to "ltr".
	Direction string `yaml:"direction"`
}

// Source seeds one translation source. Language refers to a Language
// code declared in the same file or already present in the database.
type Source struct {
	Name     string `yaml:"name"`
	Author   string `yaml:"author"`
	Language string `yaml:"language"`
}

// Reciter seeds one reciter.
type Reciter struct {
	Name string `yaml:"name"`
	// Style is the recitation style (murattal, mujawwad).
	Style string `yaml:"style"`
}
