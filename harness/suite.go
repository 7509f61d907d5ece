package harness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

// Case is one named entry of a suite file
type Case struct {
	Name string `json:"name"`
	Arguments
}

// Suite is a list of cases run in order
type Suite struct {
	Name  string `json:"name"`
	Cases []Case `json:"cases"`
}

// ParseSuite decodes a YAML suite. Fields a case leaves out take their
// value from DefaultArguments.
func ParseSuite(data []byte) (*Suite, error) {
	var raw struct {
		Name  string            `json:"name"`
		Cases []json.RawMessage `json:"cases"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	suite := &Suite{Name: raw.Name, Cases: make([]Case, 0, len(raw.Cases))}
	for i, rc := range raw.Cases {
		c := Case{Arguments: DefaultArguments()}
		if err := json.Unmarshal(rc, &c); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s-%d", c.Function, i)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		suite.Cases = append(suite.Cases, c)
	}
	return suite, nil
}

// LoadSuite reads and parses a suite file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	return suite, nil
}

// RunCase dispatches args to the procedure for its function and precision
func RunCase(t require.TestingT, env *Env, args Arguments) error {
	if err := args.Validate(); err != nil {
		return err
	}
	double := args.Precision == "d"
	switch args.Function {
	case "csr2hyb":
		if double {
			return TestingCsr2Hyb[float64](t, env, args)
		}
		return TestingCsr2Hyb[float32](t, env, args)
	case "roti":
		if double {
			return TestingRoti[float64](t, env, args)
		}
		return TestingRoti[float32](t, env, args)
	case "roti_inverse":
		if double {
			return TestingRotiInverse[float64](t, env, args)
		}
		return TestingRotiInverse[float32](t, env, args)
	}
	return fmt.Errorf("unknown function %q", args.Function)
}

// RunBadArg runs the bad argument probes for function in one precision
func RunBadArg(t require.TestingT, env *Env, function, precision string) error {
	double := precision == "d"
	switch function {
	case "csr2hyb":
		if double {
			TestingCsr2HybBadArg[float64](t, env)
		} else {
			TestingCsr2HybBadArg[float32](t, env)
		}
	case "roti", "roti_inverse":
		if double {
			TestingRotiBadArg[float64](t, env)
		} else {
			TestingRotiBadArg[float32](t, env)
		}
	default:
		return fmt.Errorf("unknown function %q", function)
	}
	return nil
}
