package babel

import (
	"fmt"
	"io"
	"sort"
)

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the cursor and the interpreter.
func NewConfig() *Config {
	m := make(Config)
	// skip whitespace before every pattern not marked as raw
	m.SetBool("cursor.skip_spaces", true)
	// fail parses that don't consume the whole input
	m.SetBool("parser.require_eof", false)
	// how deep rules can nest before the parse is aborted.  zero
	// disables the check
	m.SetInt("parser.max_depth", 4096)
	// log every rule visit
	m.SetBool("parser.trace", false)
	// klog verbosity used by the trace
	m.SetInt("parser.trace_level", 4)
	return &m
}

// Debug writes all the settings, sorted by key, into `w`
func (c *Config) Debug(w io.Writer) {
	fmt.Fprintln(w, "Configuration")

	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%-*s : %s\n", width, k, (*c)[k])
	}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType is mostly for preventing programming errors
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%s (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

func (c *Config) set(path string, vt cfgValType) *cfgVal {
	val, ok := (*c)[path]
	if !ok {
		val = &cfgVal{}
		(*c)[path] = val
	}
	val.assignType(vt)
	return val
}

func (c *Config) SetBool(path string, v bool) {
	c.set(path, cfgValType_Bool).asBool = v
}

func (c *Config) SetInt(path string, v int) {
	c.set(path, cfgValType_Int).asInt = v
}

func (c *Config) SetString(path string, v string) {
	c.set(path, cfgValType_String).asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
