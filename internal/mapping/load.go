package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curvetools/curveconv/internal/transform"
	"github.com/curvetools/curveconv/internal/validate"
)

const (
	defaultMaxParticipants = 10
	defaultShareTolerance  = 0.01
)

// rawSchema mirrors the YAML layout of a mapping file.
type rawSchema struct {
	Columns []rawColumn                  `yaml:"columns"`
	Lookups map[string]map[string]string `yaml:"lookups"`
	Rules   rawRules                     `yaml:"validation_rules"`
}

type rawColumn struct {
	Dest       string   `yaml:"dest"`
	Source     string   `yaml:"source"`
	Sources    []string `yaml:"sources"`
	Transform  string   `yaml:"transform"`
	Validation string   `yaml:"validation"`
	Default    string   `yaml:"default"`
}

type rawRules struct {
	RequiredFields  []string `yaml:"required_fields"`
	MaxParticipants int      `yaml:"max_participants"`
	ShareTolerance  float64  `yaml:"share_tolerance"`
	ISWCPattern     string   `yaml:"iswc_pattern"`
	ISRCPattern     string   `yaml:"isrc_pattern"`
	IPIPattern      string   `yaml:"ipi_pattern"`
}

// Load reads and compiles a mapping schema from a YAML file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return Parse(data)
}

// Parse compiles a mapping schema from YAML bytes. All directive strings
// are resolved here; any unrecognized transform or validation, duplicate
// destination column, or dangling reference is a *SchemaError.
func Parse(data []byte) (*Schema, error) {
	var raw rawSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	if len(raw.Columns) == 0 {
		return nil, &SchemaError{Detail: "mapping declares no columns"}
	}

	schema := &Schema{
		Lookups: Registry(raw.Lookups),
		Rules:   compileRules(raw.Rules),
	}
	if schema.Lookups == nil {
		schema.Lookups = Registry{}
	}

	opts := validate.Options{
		ISWCPattern:  schema.Rules.ISWCPattern,
		ISRCPattern:  schema.Rules.ISRCPattern,
		IPIPattern:   schema.Rules.IPIPattern,
		RoleCodes:    schema.Lookups.Values("role_codes"),
		SocietyCodes: schema.Lookups.Values("society_codes"),
	}

	seen := make(map[string]bool, len(raw.Columns))
	schema.Columns = make([]ColumnMapping, 0, len(raw.Columns))
	for _, rc := range raw.Columns {
		col, err := compileColumn(rc, schema.Lookups, opts)
		if err != nil {
			return nil, err
		}
		if seen[col.Dest] {
			return nil, &SchemaError{Column: col.Dest, Detail: "duplicate destination column"}
		}
		seen[col.Dest] = true
		schema.Columns = append(schema.Columns, col)
	}

	// Required output fields must name destination columns that exist.
	for _, field := range schema.Rules.RequiredFields {
		if !seen[field] {
			return nil, &SchemaError{
				Detail: fmt.Sprintf("required field %q is not a destination column", field),
			}
		}
	}

	return schema, nil
}

func compileColumn(rc rawColumn, lookups Registry, opts validate.Options) (ColumnMapping, error) {
	if rc.Dest == "" {
		return ColumnMapping{}, &SchemaError{Detail: "column with empty dest"}
	}

	col := ColumnMapping{
		Dest:    rc.Dest,
		Source:  rc.Source,
		Sources: rc.Sources,
		Default: rc.Default,
	}

	if rc.Transform != "" {
		spec, err := transform.Compile(rc.Transform, lookups)
		if err != nil {
			return ColumnMapping{}, &SchemaError{Column: rc.Dest, Detail: err.Error()}
		}
		col.Transform = spec

		if spec.Kind() == transform.KindConcat && len(col.Sources) == 0 {
			return ColumnMapping{}, &SchemaError{Column: rc.Dest, Detail: "concat transform declares no sources"}
		}
	}
	if rc.Validation != "" {
		rule, err := validate.Compile(rc.Validation, opts)
		if err != nil {
			return ColumnMapping{}, &SchemaError{Column: rc.Dest, Detail: err.Error()}
		}
		col.Validation = rule
	}

	return col, nil
}

func compileRules(raw rawRules) ValidationRules {
	rules := ValidationRules{
		RequiredFields:  raw.RequiredFields,
		MaxParticipants: raw.MaxParticipants,
		ShareTolerance:  raw.ShareTolerance,
		ISWCPattern:     raw.ISWCPattern,
		ISRCPattern:     raw.ISRCPattern,
		IPIPattern:      raw.IPIPattern,
	}
	if rules.MaxParticipants <= 0 {
		rules.MaxParticipants = defaultMaxParticipants
	}
	if rules.ShareTolerance <= 0 {
		rules.ShareTolerance = defaultShareTolerance
	}
	return rules
}
