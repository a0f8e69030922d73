/***** File generated by ./internal/cmd/catalog_generator. Don't edit it directly. *****/

package ops

import "math"

// BuiltinCatalog is the Catalog of built-in operators, with one field per operator instance.
type BuiltinCatalog struct {
	*Catalog

	// IDENTITY
	IdentityInt   *Op
	IdentityUint  *Op
	IdentityFloat *Op

	// AINV
	AInvInt   *Op
	AInvUint  *Op
	AInvFloat *Op

	// MINV
	MInvInt   *Op
	MInvUint  *Op
	MInvFloat *Op

	// LNOT
	LNotInt   *Op
	LNotUint  *Op
	LNotFloat *Op

	// UONE
	UOneInt   *Op
	UOneUint  *Op
	UOneFloat *Op

	// ABS
	AbsInt   *Op
	AbsUint  *Op
	AbsFloat *Op

	// BNOT
	BNotInt  *Op
	BNotUint *Op

	// SQRT
	SqrtFloat *Op

	// LOG
	LogFloat *Op

	// EXP
	ExpFloat *Op

	// SIN
	SinFloat *Op

	// COS
	CosFloat *Op

	// TAN
	TanFloat *Op

	// ASIN
	AsinFloat *Op

	// ACOS
	AcosFloat *Op

	// ATAN
	AtanFloat *Op

	// CEIL
	CeilFloat *Op

	// FLOOR
	FloorFloat *Op

	// ROUND
	RoundFloat *Op

	// TRUNC
	TruncFloat *Op

	// PLUS
	PlusInt   *Op
	PlusUint  *Op
	PlusFloat *Op

	// MINUS
	MinusInt   *Op
	MinusUint  *Op
	MinusFloat *Op

	// MULT
	MultInt   *Op
	MultUint  *Op
	MultFloat *Op

	// DIV
	DivInt   *Op
	DivUint  *Op
	DivFloat *Op

	// MINUS_POW2
	MinusPow2Int   *Op
	MinusPow2Uint  *Op
	MinusPow2Float *Op

	// FIRST
	FirstInt   *Op
	FirstUint  *Op
	FirstFloat *Op

	// SECOND
	SecondInt   *Op
	SecondUint  *Op
	SecondFloat *Op

	// BONE
	BOneInt   *Op
	BOneUint  *Op
	BOneFloat *Op

	// MIN
	MinInt   *Op
	MinUint  *Op
	MinFloat *Op

	// MAX
	MaxInt   *Op
	MaxUint  *Op
	MaxFloat *Op

	// LOR
	LOrInt   *Op
	LOrUint  *Op
	LOrFloat *Op

	// LAND
	LAndInt   *Op
	LAndUint  *Op
	LAndFloat *Op

	// BOR
	BOrInt  *Op
	BOrUint *Op

	// BAND
	BAndInt  *Op
	BAndUint *Op

	// BXOR
	BXorInt  *Op
	BXorUint *Op

	// FIRST_NON_MAX
	FirstNonMaxInt *Op

	// MIN_NON_MAX
	MinNonMaxInt *Op

	// CONST_MAX
	ConstMaxInt *Op

	// SECOND_MAX
	SecondMaxInt *Op

	// MIN_NON_ZERO
	MinNonZeroInt *Op

	// S1ST_IF_SND_MAX
	FirstIfSecondMaxInt *Op

	// FST_MINUS_ONE
	FirstMinusOneInt *Op

	// SELECT_MIN_WEIGHT
	SelectMinWeightUint *Op

	// CONSTRUCT_PAIR
	ConstructPairUint *Op

	// EQZERO
	EqZeroInt   *Op
	EqZeroUint  *Op
	EqZeroFloat *Op

	// NQZERO
	NqZeroInt   *Op
	NqZeroUint  *Op
	NqZeroFloat *Op

	// GTZERO
	GtZeroInt   *Op
	GtZeroUint  *Op
	GtZeroFloat *Op

	// GEZERO
	GeZeroInt   *Op
	GeZeroUint  *Op
	GeZeroFloat *Op

	// LTZERO
	LtZeroInt   *Op
	LtZeroUint  *Op
	LtZeroFloat *Op

	// LEZERO
	LeZeroInt   *Op
	LeZeroUint  *Op
	LeZeroFloat *Op

	// ALWAYS
	AlwaysInt   *Op
	AlwaysUint  *Op
	AlwaysFloat *Op

	// NEVER
	NeverInt   *Op
	NeverUint  *Op
	NeverFloat *Op

	// EQUALS_MINF
	EqualsMinfFloat *Op

	// EQUALS_MAX
	EqualsMaxInt  *Op
	EqualsMaxUint *Op

	// NEQUALS_MAX
	NEqualsMaxInt  *Op
	NEqualsMaxUint *Op
}

// numBuiltinOps is the number of operators in BuiltinCatalog.
const numBuiltinOps = 113

func newBuiltinCatalog() *BuiltinCatalog {
	c := &BuiltinCatalog{Catalog: NewCatalog()}

	// IDENTITY
	c.IdentityInt = c.mustRegister(MustUnary[int32]("IDENTITY", "{ return a; }", identity[int32]))
	c.IdentityUint = c.mustRegister(MustUnary[uint32]("IDENTITY", "{ return a; }", identity[uint32]))
	c.IdentityFloat = c.mustRegister(MustUnary[float32]("IDENTITY", "{ return a; }", identity[float32]))

	// AINV
	c.AInvInt = c.mustRegister(MustUnary[int32]("AINV", "{ return -a; }", ainv[int32]))
	c.AInvUint = c.mustRegister(MustUnary[uint32]("AINV", "{ return -a; }", ainv[uint32]))
	c.AInvFloat = c.mustRegister(MustUnary[float32]("AINV", "{ return -a; }", ainv[float32]))

	// MINV
	c.MInvInt = c.mustRegister(MustUnary[int32]("MINV", "{ return 1 / a; }", minv[int32]))
	c.MInvUint = c.mustRegister(MustUnary[uint32]("MINV", "{ return 1 / a; }", minv[uint32]))
	c.MInvFloat = c.mustRegister(MustUnary[float32]("MINV", "{ return 1.0f / a; }", minv[float32]))

	// LNOT
	c.LNotInt = c.mustRegister(MustUnary[int32]("LNOT", "{ return !(a != 0); }", lnot[int32]))
	c.LNotUint = c.mustRegister(MustUnary[uint32]("LNOT", "{ return !(a != 0); }", lnot[uint32]))
	c.LNotFloat = c.mustRegister(MustUnary[float32]("LNOT", "{ return !(a != 0); }", lnot[float32]))

	// UONE
	c.UOneInt = c.mustRegister(MustUnary[int32]("UONE", "{ return 1; }", uone[int32]))
	c.UOneUint = c.mustRegister(MustUnary[uint32]("UONE", "{ return 1; }", uone[uint32]))
	c.UOneFloat = c.mustRegister(MustUnary[float32]("UONE", "{ return 1; }", uone[float32]))

	// ABS
	c.AbsInt = c.mustRegister(MustUnary[int32]("ABS", "{ return abs(a); }", absInt))
	c.AbsUint = c.mustRegister(MustUnary[uint32]("ABS", "{ return a; }", identity[uint32]))
	c.AbsFloat = c.mustRegister(MustUnary[float32]("ABS", "{ return fabs(a); }", mathUnary(math.Abs)))

	// BNOT
	c.BNotInt = c.mustRegister(MustUnary[int32]("BNOT", "{ return ~a; }", bnot[int32]))
	c.BNotUint = c.mustRegister(MustUnary[uint32]("BNOT", "{ return ~a; }", bnot[uint32]))

	// SQRT
	c.SqrtFloat = c.mustRegister(MustUnary[float32]("SQRT", "{ return sqrt(a); }", mathUnary(math.Sqrt)))

	// LOG
	c.LogFloat = c.mustRegister(MustUnary[float32]("LOG", "{ return log(a); }", mathUnary(math.Log)))

	// EXP
	c.ExpFloat = c.mustRegister(MustUnary[float32]("EXP", "{ return exp(a); }", mathUnary(math.Exp)))

	// SIN
	c.SinFloat = c.mustRegister(MustUnary[float32]("SIN", "{ return sin(a); }", mathUnary(math.Sin)))

	// COS
	c.CosFloat = c.mustRegister(MustUnary[float32]("COS", "{ return cos(a); }", mathUnary(math.Cos)))

	// TAN
	c.TanFloat = c.mustRegister(MustUnary[float32]("TAN", "{ return tan(a); }", mathUnary(math.Tan)))

	// ASIN
	c.AsinFloat = c.mustRegister(MustUnary[float32]("ASIN", "{ return asin(a); }", mathUnary(math.Asin)))

	// ACOS
	c.AcosFloat = c.mustRegister(MustUnary[float32]("ACOS", "{ return acos(a); }", mathUnary(math.Acos)))

	// ATAN
	c.AtanFloat = c.mustRegister(MustUnary[float32]("ATAN", "{ return atan(a); }", mathUnary(math.Atan)))

	// CEIL
	c.CeilFloat = c.mustRegister(MustUnary[float32]("CEIL", "{ return ceil(a); }", mathUnary(math.Ceil)))

	// FLOOR
	c.FloorFloat = c.mustRegister(MustUnary[float32]("FLOOR", "{ return floor(a); }", mathUnary(math.Floor)))

	// ROUND
	c.RoundFloat = c.mustRegister(MustUnary[float32]("ROUND", "{ return round(a); }", mathUnary(math.Round)))

	// TRUNC
	c.TruncFloat = c.mustRegister(MustUnary[float32]("TRUNC", "{ return trunc(a); }", mathUnary(math.Trunc)))

	// PLUS
	c.PlusInt = c.mustRegister(MustBinary[int32]("PLUS", "{ return a + b; }", plus[int32]))
	c.PlusUint = c.mustRegister(MustBinary[uint32]("PLUS", "{ return a + b; }", plus[uint32]))
	c.PlusFloat = c.mustRegister(MustBinary[float32]("PLUS", "{ return a + b; }", plus[float32]))

	// MINUS
	c.MinusInt = c.mustRegister(MustBinary[int32]("MINUS", "{ return a - b; }", minus[int32]))
	c.MinusUint = c.mustRegister(MustBinary[uint32]("MINUS", "{ return a - b; }", minus[uint32]))
	c.MinusFloat = c.mustRegister(MustBinary[float32]("MINUS", "{ return a - b; }", minus[float32]))

	// MULT
	c.MultInt = c.mustRegister(MustBinary[int32]("MULT", "{ return a * b; }", mult[int32]))
	c.MultUint = c.mustRegister(MustBinary[uint32]("MULT", "{ return a * b; }", mult[uint32]))
	c.MultFloat = c.mustRegister(MustBinary[float32]("MULT", "{ return a * b; }", mult[float32]))

	// DIV
	c.DivInt = c.mustRegister(MustBinary[int32]("DIV", "{ return a / b; }", div[int32]))
	c.DivUint = c.mustRegister(MustBinary[uint32]("DIV", "{ return a / b; }", div[uint32]))
	c.DivFloat = c.mustRegister(MustBinary[float32]("DIV", "{ return a / b; }", div[float32]))

	// MINUS_POW2
	c.MinusPow2Int = c.mustRegister(MustBinary[int32]("MINUS_POW2", "{ return (a - b) * (a - b); }", minusPow2[int32]))
	c.MinusPow2Uint = c.mustRegister(MustBinary[uint32]("MINUS_POW2", "{ return (a - b) * (a - b); }", minusPow2[uint32]))
	c.MinusPow2Float = c.mustRegister(MustBinary[float32]("MINUS_POW2", "{ return (a - b) * (a - b); }", minusPow2[float32]))

	// FIRST
	c.FirstInt = c.mustRegister(MustBinary[int32]("FIRST", "{ return a; }", first[int32]))
	c.FirstUint = c.mustRegister(MustBinary[uint32]("FIRST", "{ return a; }", first[uint32]))
	c.FirstFloat = c.mustRegister(MustBinary[float32]("FIRST", "{ return a; }", first[float32]))

	// SECOND
	c.SecondInt = c.mustRegister(MustBinary[int32]("SECOND", "{ return b; }", second[int32]))
	c.SecondUint = c.mustRegister(MustBinary[uint32]("SECOND", "{ return b; }", second[uint32]))
	c.SecondFloat = c.mustRegister(MustBinary[float32]("SECOND", "{ return b; }", second[float32]))

	// BONE
	c.BOneInt = c.mustRegister(MustBinary[int32]("BONE", "{ return 1; }", bone[int32]))
	c.BOneUint = c.mustRegister(MustBinary[uint32]("BONE", "{ return 1; }", bone[uint32]))
	c.BOneFloat = c.mustRegister(MustBinary[float32]("BONE", "{ return 1; }", bone[float32]))

	// MIN
	c.MinInt = c.mustRegister(MustBinary[int32]("MIN", "{ return min(a, b); }", minOf[int32]))
	c.MinUint = c.mustRegister(MustBinary[uint32]("MIN", "{ return min(a, b); }", minOf[uint32]))
	c.MinFloat = c.mustRegister(MustBinary[float32]("MIN", "{ return min(a, b); }", minOf[float32]))

	// MAX
	c.MaxInt = c.mustRegister(MustBinary[int32]("MAX", "{ return max(a, b); }", maxOf[int32]))
	c.MaxUint = c.mustRegister(MustBinary[uint32]("MAX", "{ return max(a, b); }", maxOf[uint32]))
	c.MaxFloat = c.mustRegister(MustBinary[float32]("MAX", "{ return max(a, b); }", maxOf[float32]))

	// LOR
	c.LOrInt = c.mustRegister(MustBinary[int32]("LOR", "{ return a || b; }", lor[int32]))
	c.LOrUint = c.mustRegister(MustBinary[uint32]("LOR", "{ return a || b; }", lor[uint32]))
	c.LOrFloat = c.mustRegister(MustBinary[float32]("LOR", "{ return a || b; }", lor[float32]))

	// LAND
	c.LAndInt = c.mustRegister(MustBinary[int32]("LAND", "{ return a && b; }", land[int32]))
	c.LAndUint = c.mustRegister(MustBinary[uint32]("LAND", "{ return a && b; }", land[uint32]))
	c.LAndFloat = c.mustRegister(MustBinary[float32]("LAND", "{ return a && b; }", land[float32]))

	// BOR
	c.BOrInt = c.mustRegister(MustBinary[int32]("BOR", "{ return a | b; }", bor[int32]))
	c.BOrUint = c.mustRegister(MustBinary[uint32]("BOR", "{ return a | b; }", bor[uint32]))

	// BAND
	c.BAndInt = c.mustRegister(MustBinary[int32]("BAND", "{ return a & b; }", band[int32]))
	c.BAndUint = c.mustRegister(MustBinary[uint32]("BAND", "{ return a & b; }", band[uint32]))

	// BXOR
	c.BXorInt = c.mustRegister(MustBinary[int32]("BXOR", "{ return a ^ b; }", bxor[int32]))
	c.BXorUint = c.mustRegister(MustBinary[uint32]("BXOR", "{ return a ^ b; }", bxor[uint32]))

	// FIRST_NON_MAX
	c.FirstNonMaxInt = c.mustRegister(MustBinary[int32]("FIRST_NON_MAX", "{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return a; }", firstNonMax))

	// MIN_NON_MAX
	c.MinNonMaxInt = c.mustRegister(MustBinary[int32]("MIN_NON_MAX", "{ if (a == INT_MAX || b == INT_MAX) { return INT_MAX; } return min(a, b); }", minNonMax))

	// CONST_MAX
	c.ConstMaxInt = c.mustRegister(MustBinary[int32]("CONST_MAX", "{ return INT_MAX; }", constMax))

	// SECOND_MAX
	c.SecondMaxInt = c.mustRegister(MustBinary[int32]("SECOND_MAX", "{ if (a == INT_MAX) { return b; } return a; }", secondMax))

	// MIN_NON_ZERO
	c.MinNonZeroInt = c.mustRegister(MustBinary[int32]("MIN_NON_ZERO", "{ if (a == 0) { return b; } return min(a, b); }", minNonZero))

	// S1ST_IF_SND_MAX
	c.FirstIfSecondMaxInt = c.mustRegister(MustBinary[int32]("S1ST_IF_SND_MAX", "{ if (b == INT_MAX) { return a; } return INT_MAX; }", firstIfSecondMax))

	// FST_MINUS_ONE
	c.FirstMinusOneInt = c.mustRegister(MustBinary[int32]("FST_MINUS_ONE", "{ if (a == INT_MAX && b == INT_MAX) { return INT_MAX; } return a - 1; }", firstMinusOne))

	// SELECT_MIN_WEIGHT
	c.SelectMinWeightUint = c.mustRegister(MustBinary[uint32]("SELECT_MIN_WEIGHT", "{ uint weight_a = a >> 21; uint weight_b = b >> 21; uint value_a = a & 0x1FFFFF; uint value_b = b & 0x1FFFFF; if (weight_a <= weight_b) { return (weight_a << 21) + value_a; } return (weight_b << 21) + value_b; }", selectMinWeight))

	// CONSTRUCT_PAIR
	c.ConstructPairUint = c.mustRegister(MustBinary[uint32]("CONSTRUCT_PAIR", "{ uint value_a = a & 0x1FFFFF; uint weight_b = b >> 21; return (weight_b << 21) + value_a; }", constructPair))

	// EQZERO
	c.EqZeroInt = c.mustRegister(MustSelect[int32]("EQZERO", "{ return a == 0; }", eqZero[int32]))
	c.EqZeroUint = c.mustRegister(MustSelect[uint32]("EQZERO", "{ return a == 0; }", eqZero[uint32]))
	c.EqZeroFloat = c.mustRegister(MustSelect[float32]("EQZERO", "{ return a == 0; }", eqZero[float32]))

	// NQZERO
	c.NqZeroInt = c.mustRegister(MustSelect[int32]("NQZERO", "{ return a != 0; }", nqZero[int32]))
	c.NqZeroUint = c.mustRegister(MustSelect[uint32]("NQZERO", "{ return a != 0; }", nqZero[uint32]))
	c.NqZeroFloat = c.mustRegister(MustSelect[float32]("NQZERO", "{ return a != 0; }", nqZero[float32]))

	// GTZERO
	c.GtZeroInt = c.mustRegister(MustSelect[int32]("GTZERO", "{ return a > 0; }", gtZero[int32]))
	c.GtZeroUint = c.mustRegister(MustSelect[uint32]("GTZERO", "{ return a > 0; }", gtZero[uint32]))
	c.GtZeroFloat = c.mustRegister(MustSelect[float32]("GTZERO", "{ return a > 0; }", gtZero[float32]))

	// GEZERO
	c.GeZeroInt = c.mustRegister(MustSelect[int32]("GEZERO", "{ return a >= 0; }", geZero[int32]))
	c.GeZeroUint = c.mustRegister(MustSelect[uint32]("GEZERO", "{ return a >= 0; }", geZero[uint32]))
	c.GeZeroFloat = c.mustRegister(MustSelect[float32]("GEZERO", "{ return a >= 0; }", geZero[float32]))

	// LTZERO
	c.LtZeroInt = c.mustRegister(MustSelect[int32]("LTZERO", "{ return a < 0; }", ltZero[int32]))
	c.LtZeroUint = c.mustRegister(MustSelect[uint32]("LTZERO", "{ return a < 0; }", ltZero[uint32]))
	c.LtZeroFloat = c.mustRegister(MustSelect[float32]("LTZERO", "{ return a < 0; }", ltZero[float32]))

	// LEZERO
	c.LeZeroInt = c.mustRegister(MustSelect[int32]("LEZERO", "{ return a <= 0; }", leZero[int32]))
	c.LeZeroUint = c.mustRegister(MustSelect[uint32]("LEZERO", "{ return a <= 0; }", leZero[uint32]))
	c.LeZeroFloat = c.mustRegister(MustSelect[float32]("LEZERO", "{ return a <= 0; }", leZero[float32]))

	// ALWAYS
	c.AlwaysInt = c.mustRegister(MustSelect[int32]("ALWAYS", "{ return 1; }", always[int32]))
	c.AlwaysUint = c.mustRegister(MustSelect[uint32]("ALWAYS", "{ return 1; }", always[uint32]))
	c.AlwaysFloat = c.mustRegister(MustSelect[float32]("ALWAYS", "{ return 1; }", always[float32]))

	// NEVER
	c.NeverInt = c.mustRegister(MustSelect[int32]("NEVER", "{ return 0; }", never[int32]))
	c.NeverUint = c.mustRegister(MustSelect[uint32]("NEVER", "{ return 0; }", never[uint32]))
	c.NeverFloat = c.mustRegister(MustSelect[float32]("NEVER", "{ return 0; }", never[float32]))

	// EQUALS_MINF
	c.EqualsMinfFloat = c.mustRegister(MustSelect[float32]("EQUALS_MINF", "{ return a == -INFINITY; }", equalsMinf))

	// EQUALS_MAX
	c.EqualsMaxInt = c.mustRegister(MustSelect[int32]("EQUALS_MAX", "{ return a == INT_MAX; }", equalsMaxInt))
	c.EqualsMaxUint = c.mustRegister(MustSelect[uint32]("EQUALS_MAX", "{ return a == UINT_MAX; }", equalsMaxUint))

	// NEQUALS_MAX
	c.NEqualsMaxInt = c.mustRegister(MustSelect[int32]("NEQUALS_MAX", "{ return a != INT_MAX; }", nequalsMaxInt))
	c.NEqualsMaxUint = c.mustRegister(MustSelect[uint32]("NEQUALS_MAX", "{ return a != UINT_MAX; }", nequalsMaxUint))
	return c
}
