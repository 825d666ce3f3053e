package matcher

// Options tune how a Set compares patterns against candidates.
type Options struct {
	// Engine names the glob implementation, see Lookup.
	Engine string `yaml:"engine" json:"engine"`

	// NoCase compares case-insensitively.
	NoCase bool `yaml:"nocase" json:"nocase"`

	// Dot lets wildcards match path segments that start with a ".",
	// without it such segments must be named by the pattern.
	Dot bool `yaml:"dot" json:"dot"`

	// MatchBase compares patterns without a "/" against the basename.
	MatchBase bool `yaml:"matchBase" json:"matchBase"`
}
