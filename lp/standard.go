package lp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/milp/model"
)

// column maps one model variable onto standard-form columns:
//
//	x = offset + sign·y[pos] − y[neg]   (neg < 0 when the variable is not free)
type column struct {
	name   string
	pos    int
	neg    int
	sign   float64
	offset float64
}

// standardForm is  min cᵀy  s.t.  A·y = b, y ≥ 0  for a model, kept dense.
// Problems handled here are small; a dense layout keeps the conversion simple.
type standardForm struct {
	c    []float64
	a    [][]float64
	b    []float64
	cols []column
	n    int

	// infeasible is set when an all-zero equality row has a non-zero rhs.
	infeasible bool
}

// buildStandardForm converts m (objective in m's sense) into minimization
// standard form. Integrality is ignored.
//
// Complexity: O((R + V)·(V + R)) time and memory for R rows and V variables.
func buildStandardForm(m *model.Model) *standardForm {
	var (
		vars = m.Vars()
		cons = m.Constraints()
		sf   = &standardForm{cols: make([]column, len(vars))}
		idx  = make(map[string]int, len(vars))
		dir  = 1.0
	)
	if m.Sense() == model.Maximize {
		dir = -1 // max f ≡ min −f
	}

	// Structural columns.
	n := 0
	boundRows := 0
	for i, v := range vars {
		idx[v.Name] = i
		col := column{name: v.Name, pos: n, neg: -1, sign: 1}
		n++
		lowFinite := !math.IsInf(v.Lower, -1)
		upFinite := !math.IsInf(v.Upper, 1)
		switch {
		case lowFinite:
			col.offset = v.Lower
			if upFinite {
				boundRows++
			}
		case upFinite:
			col.offset, col.sign = v.Upper, -1
		default:
			col.neg = n
			n++
		}
		sf.cols[i] = col
	}

	// Slack columns: one per inequality row and one per finite upper bound row.
	slack := n
	for _, c := range cons {
		if c.Op != model.EQ {
			n++
		}
	}
	n += boundRows
	sf.n = n
	sf.c = make([]float64, n)
	for i, v := range vars {
		col := sf.cols[i]
		sf.c[col.pos] = dir * v.Objective * col.sign
		if col.neg >= 0 {
			sf.c[col.neg] = -dir * v.Objective
		}
	}

	// Constraint rows.
	for _, c := range cons {
		row := make([]float64, n)
		rhs := c.RHS
		for name, a := range c.Coeffs {
			col := sf.cols[idx[name]]
			row[col.pos] += a * col.sign
			if col.neg >= 0 {
				row[col.neg] -= a
			}
			rhs -= a * col.offset
		}
		switch c.Op {
		case model.LE:
			row[slack] = 1
			slack++
		case model.GE:
			row[slack] = -1
			slack++
		}
		sf.a = append(sf.a, row)
		sf.b = append(sf.b, rhs)
	}

	// Upper-bound rows for doubly bounded variables: y + s = u − l.
	for i, v := range vars {
		col := sf.cols[i]
		if math.IsInf(v.Lower, -1) || math.IsInf(v.Upper, 1) {
			continue
		}
		row := make([]float64, n)
		row[col.pos] = 1
		row[slack] = 1
		slack++
		sf.a = append(sf.a, row)
		sf.b = append(sf.b, v.Upper-v.Lower)
	}

	sf.dropZeroRows()

	return sf
}

// dropZeroRows removes all-zero rows (only equality rows can be all-zero)
// and flags infeasibility when such a row demands a non-zero rhs.
func (sf *standardForm) dropZeroRows() {
	const tol = 1e-12
	keepA := sf.a[:0]
	keepB := sf.b[:0]
	for i, row := range sf.a {
		if isZero(row) {
			if math.Abs(sf.b[i]) > tol {
				sf.infeasible = true
			}
			continue
		}
		keepA = append(keepA, row)
		keepB = append(keepB, sf.b[i])
	}
	sf.a, sf.b = keepA, keepB
}

// reduce returns the gonum inputs restricted to non-zero columns, with every
// row scaled so that b ≥ 0. keep lists the surviving column indices.
// improving reports whether a dropped (unconstrained) column has negative
// cost, i.e. the objective improves without limit along it.
func (sf *standardForm) reduce() (a *mat.Dense, b, c []float64, keep []int, improving bool) {
	for j := 0; j < sf.n; j++ {
		nonZero := false
		for _, row := range sf.a {
			if row[j] != 0 {
				nonZero = true
				break
			}
		}
		if nonZero {
			keep = append(keep, j)
			continue
		}
		if sf.c[j] < 0 {
			improving = true
		}
	}
	if len(keep) == 0 || len(sf.a) == 0 {
		return nil, nil, nil, keep, improving
	}

	rows := len(sf.a)
	data := make([]float64, 0, rows*len(keep))
	b = make([]float64, rows)
	for i, row := range sf.a {
		s := 1.0
		if sf.b[i] < 0 {
			s = -1
		}
		b[i] = s * sf.b[i]
		for _, j := range keep {
			data = append(data, s*row[j])
		}
	}
	c = make([]float64, len(keep))
	for k, j := range keep {
		c[k] = sf.c[j]
	}

	return mat.NewDense(rows, len(keep), data), b, c, keep, improving
}

// recover maps a standard-form point y back to model variable values.
func (sf *standardForm) recover(y []float64) map[string]float64 {
	values := make(map[string]float64, len(sf.cols))
	for _, col := range sf.cols {
		x := col.offset + col.sign*y[col.pos]
		if col.neg >= 0 {
			x -= y[col.neg]
		}
		values[col.name] = x
	}

	return values
}

func isZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}

	return true
}
