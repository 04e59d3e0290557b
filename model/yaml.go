package model

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Model file format:
//
//	name: production
//	sense: maximize            # maximize (default) | minimize
//	variables:
//	  - name: x1
//	    domain: integer        # continuous (default) | integer | binary
//	    objective: 100
//	    lower: 0               # optional, default 0
//	    upper: .inf            # optional, default +Inf (binary: 1)
//	constraints:
//	  - name: c1
//	    terms: {x1: 2, x2: 1}
//	    op: "<="               # <= | >= | =
//	    rhs: 10

type fileModel struct {
	Name        string           `yaml:"name" validate:"required"`
	Sense       string           `yaml:"sense,omitempty" validate:"omitempty,oneof=max maximize min minimize"`
	Variables   []fileVariable   `yaml:"variables" validate:"required,min=1,dive"`
	Constraints []fileConstraint `yaml:"constraints,omitempty" validate:"dive"`
}

type fileVariable struct {
	Name      string   `yaml:"name" validate:"required"`
	Domain    string   `yaml:"domain,omitempty" validate:"omitempty,oneof=continuous real integer int binary bin"`
	Objective float64  `yaml:"objective"`
	Lower     *float64 `yaml:"lower,omitempty"`
	Upper     *float64 `yaml:"upper,omitempty"`
}

type fileConstraint struct {
	Name  string             `yaml:"name" validate:"required"`
	Terms map[string]float64 `yaml:"terms" validate:"required,min=1"`
	Op    string             `yaml:"op" validate:"required"`
	RHS   float64            `yaml:"rhs"`
}

var validate = validator.New()

// Load decodes and validates a YAML model document.
//
// Errors: ErrInvalidFile for malformed or invalid documents; construction
// sentinels (ErrDuplicateVar, ErrUnknownVar, ...) for semantic problems.
func Load(r io.Reader) (*Model, error) {
	var doc fileModel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, formatValidationError(err))
	}

	sense, err := ParseSense(doc.Sense)
	if err != nil {
		return nil, err
	}
	m := New(doc.Name, sense)
	for _, fv := range doc.Variables {
		d, err := ParseDomain(fv.Domain)
		if err != nil {
			return nil, err
		}
		var opts []VarOption
		if fv.Lower != nil {
			opts = append(opts, WithLower(*fv.Lower))
		}
		if fv.Upper != nil {
			opts = append(opts, WithUpper(*fv.Upper))
		}
		if err = m.AddVar(fv.Name, d, fv.Objective, opts...); err != nil {
			return nil, err
		}
	}
	for _, fc := range doc.Constraints {
		op, err := ParseOperator(fc.Op)
		if err != nil {
			return nil, err
		}
		if err = m.AddConstraint(fc.Name, fc.Terms, op, fc.RHS); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Encode writes m in the model file format. Default bounds are omitted.
// Integrality recorded by Linearize is written back as the original domain.
func (m *Model) Encode(w io.Writer) error {
	doc := fileModel{Name: m.name, Sense: m.sense.String()}
	integer := make(map[string]bool, len(m.integers))
	for _, name := range m.NonContinuous() {
		integer[name] = true
	}
	for _, v := range m.vars {
		fv := fileVariable{Name: v.Name, Objective: v.Objective, Domain: v.Domain.String()}
		if v.Domain == Continuous && integer[v.Name] {
			fv.Domain = Integer.String()
			if v.Lower == 0 && v.Upper == 1 {
				fv.Domain = Binary.String()
			}
		}
		if v.Lower != 0 {
			lo := v.Lower
			fv.Lower = &lo
		}
		if !math.IsInf(v.Upper, 1) && !(fv.Domain == Binary.String() && v.Upper == 1) {
			hi := v.Upper
			fv.Upper = &hi
		}
		doc.Variables = append(doc.Variables, fv)
	}
	for _, c := range m.cons {
		doc.Constraints = append(doc.Constraints, fileConstraint{
			Name:  c.Name,
			Terms: c.Coeffs,
			Op:    c.Op.String(),
			RHS:   c.RHS,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("model: encode: %w", err)
	}

	return enc.Close()
}

// formatValidationError turns validator errors into one readable line.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Namespace())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return strings.Join(msgs, "; ")
}
