package standings

import (
	"math"

	"github.com/okian/standings/internal/domain/metric"
)

const (
	defaultPrecision = 6
	maxPrecision     = 12
)

// keyPart is one precedence metric quantised to a fixed-point grid and
// oriented so that smaller always sorts first.
type keyPart struct {
	v  int64
	ok bool
}

type sortKey []keyPart

// quantize converts x to fixed point at the given scale, clamping to the
// representable range so the value can always be negated.
//
// Values are rounded to the nearest grid point, so two values closer than one
// step still land on different points when they straddle a half step. At
// scale 1e6, 1.00000049 and 1.00000051 quantize to 1000000 and 1000001 and do
// not tie.
func quantize(x, scale float64) int64 {
	if math.IsNaN(x) {
		return 0
	}
	scaled := math.Round(x * scale)
	if scaled >= math.MaxInt64 {
		return math.MaxInt64
	}
	if scaled <= -math.MaxInt64 {
		return -math.MaxInt64
	}
	return int64(scaled)
}

func newKeyPart(v metric.Value, dir metric.Direction, scale float64) keyPart {
	if !v.Valid {
		return keyPart{}
	}
	q := quantize(v.Number, scale)
	if dir == metric.HigherIsBetter {
		q = -q
	}
	return keyPart{v: q, ok: true}
}

// compareKeys orders keys element-wise; missing values sort last.
func compareKeys(a, b sortKey) int {
	for i := range a {
		x, y := a[i], b[i]
		switch {
		case x.ok && !y.ok:
			return -1
		case !x.ok && y.ok:
			return 1
		case !x.ok && !y.ok:
			continue
		case x.v < y.v:
			return -1
		case x.v > y.v:
			return 1
		}
	}
	return 0
}
