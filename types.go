package rainbow

// ParamSet names a predefined Rainbow parameter set.
type ParamSet string

const (
	// Toy is the smallest meaningful instance (v1=o1=o2=1). Test use only.
	Toy ParamSet = "rainbow-toy"
	// Small is a fast instance for experiments (v1=o1=o2=8).
	Small ParamSet = "rainbow-small"
	// Classic is Rainbow(16,32,32,32): 96 variables, 64 equations.
	Classic ParamSet = "rainbow-16-32-32-32"
)

// Params fully determines the dimensions of every Rainbow structure.
type Params struct {
	Set ParamSet `json:"set,omitempty" toml:"ParamSet"`
	V1  int      `json:"v1" toml:"V1"` // Vinegar variables of the first layer
	O1  int      `json:"o1" toml:"O1"` // Oil variables of the first layer
	O2  int      `json:"o2" toml:"O2"` // Oil variables of the second layer
}

// N returns the number of variables (signature length).
func (p Params) N() int {
	return p.V1 + p.O1 + p.O2
}

// M returns the number of equations (digest length).
func (p Params) M() int {
	return p.O1 + p.O2
}

// SameShape reports whether two parameter sets describe identical dimensions,
// regardless of their names.
func (p Params) SameShape(o Params) bool {
	return p.V1 == o.V1 && p.O1 == o.O1 && p.O2 == o.O2
}
