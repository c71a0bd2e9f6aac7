package ptg

import "strings"

// Function describes a built-in worksheet function.
type Function struct {
	Index    uint16
	Name     string
	Min, Max int
	Return   Class
	// Args lists the class of each argument; the last one repeats.
	Args []Class
}

// Fixed reports whether the function is called through Func rather than
// FuncVar.
func (f Function) Fixed() bool { return f.Min == f.Max }

// ArgClass returns the class argument i is passed in.
func (f Function) ArgClass(i int) Class {
	if len(f.Args) == 0 {
		return ClassValue
	}
	return f.Args[min(i, len(f.Args)-1)]
}

type funcDef struct {
	name     string
	min, max int
	ret      byte
	args     string
}

var funcDefs = map[uint16]funcDef{
	0: {"COUNT", 0, 30, 'V', "R"}, 1: {"IF", 2, 3, 'V', "VRR"},
	2: {"ISNA", 1, 1, 'V', "V"}, 3: {"ISERROR", 1, 1, 'V', "V"},
	4: {"SUM", 0, 30, 'V', "R"}, 5: {"AVERAGE", 1, 30, 'V', "R"},
	6: {"MIN", 1, 30, 'V', "R"}, 7: {"MAX", 1, 30, 'V', "R"},
	8: {"ROW", 0, 1, 'V', "R"}, 9: {"COLUMN", 0, 1, 'V', "R"},
	10: {"NA", 0, 0, 'V', ""}, 11: {"NPV", 2, 30, 'V', "VR"},
	12: {"STDEV", 1, 30, 'V', "R"}, 13: {"DOLLAR", 1, 2, 'V', "V"},
	14: {"FIXED", 2, 3, 'V', "VVV"}, 15: {"SIN", 1, 1, 'V', "V"},
	16: {"COS", 1, 1, 'V', "V"}, 17: {"TAN", 1, 1, 'V', "V"},
	18: {"ATAN", 1, 1, 'V', "V"}, 19: {"PI", 0, 0, 'V', ""},
	20: {"SQRT", 1, 1, 'V', "V"}, 21: {"EXP", 1, 1, 'V', "V"},
	22: {"LN", 1, 1, 'V', "V"}, 23: {"LOG10", 1, 1, 'V', "V"},
	24: {"ABS", 1, 1, 'V', "V"}, 25: {"INT", 1, 1, 'V', "V"},
	26: {"SIGN", 1, 1, 'V', "V"}, 27: {"ROUND", 2, 2, 'V', "VV"},
	28: {"LOOKUP", 2, 3, 'V', "VRR"}, 29: {"INDEX", 2, 4, 'R', "RVVV"},
	30: {"REPT", 2, 2, 'V', "VV"}, 31: {"MID", 3, 3, 'V', "VVV"},
	32: {"LEN", 1, 1, 'V', "V"}, 33: {"VALUE", 1, 1, 'V', "V"},
	34: {"TRUE", 0, 0, 'V', ""}, 35: {"FALSE", 0, 0, 'V', ""},
	36: {"AND", 1, 30, 'V', "R"}, 37: {"OR", 1, 30, 'V', "R"},
	38: {"NOT", 1, 1, 'V', "V"}, 39: {"MOD", 2, 2, 'V', "VV"},
	40: {"DCOUNT", 3, 3, 'V', "RRR"}, 41: {"DSUM", 3, 3, 'V', "RRR"},
	42: {"DAVERAGE", 3, 3, 'V', "RRR"}, 43: {"DMIN", 3, 3, 'V', "RRR"},
	44: {"DMAX", 3, 3, 'V', "RRR"}, 45: {"DSTDEV", 3, 3, 'V', "RRR"},
	46: {"VAR", 1, 30, 'V', "R"}, 47: {"DVAR", 3, 3, 'V', "RRR"},
	48: {"TEXT", 2, 2, 'V', "VV"}, 49: {"LINEST", 1, 4, 'A', "RRVV"},
	50: {"TREND", 1, 4, 'A', "RRVV"}, 51: {"LOGEST", 1, 4, 'A', "RRVV"},
	52: {"GROWTH", 1, 4, 'A', "RRVV"}, 56: {"PV", 3, 5, 'V', "VVVVV"},
	57: {"FV", 3, 5, 'V', "VVVVV"}, 58: {"NPER", 3, 5, 'V', "VVVVV"},
	59: {"PMT", 3, 5, 'V', "VVVVV"}, 60: {"RATE", 3, 6, 'V', "VVVVVV"},
	61: {"MIRR", 3, 3, 'V', "RVV"}, 62: {"IRR", 1, 2, 'V', "RV"},
	63: {"RAND", 0, 0, 'V', ""}, 64: {"MATCH", 2, 3, 'V', "VRR"},
	65: {"DATE", 3, 3, 'V', "VVV"}, 66: {"TIME", 3, 3, 'V', "VVV"},
	67: {"DAY", 1, 1, 'V', "V"}, 68: {"MONTH", 1, 1, 'V', "V"},
	69: {"YEAR", 1, 1, 'V', "V"}, 70: {"WEEKDAY", 1, 2, 'V', "VV"},
	71: {"HOUR", 1, 1, 'V', "V"}, 72: {"MINUTE", 1, 1, 'V', "V"},
	73: {"SECOND", 1, 1, 'V', "V"}, 74: {"NOW", 0, 0, 'V', ""},
	75: {"AREAS", 1, 1, 'V', "R"}, 76: {"ROWS", 1, 1, 'V', "A"},
	77: {"COLUMNS", 1, 1, 'V', "A"}, 78: {"OFFSET", 3, 5, 'R', "RVVVV"},
	82: {"SEARCH", 2, 3, 'V', "VVV"}, 83: {"TRANSPOSE", 1, 1, 'A', "A"},
	86: {"TYPE", 1, 1, 'V', "V"}, 97: {"ATAN2", 2, 2, 'V', "VV"},
	98: {"ASIN", 1, 1, 'V', "V"}, 99: {"ACOS", 1, 1, 'V', "V"},
	100: {"CHOOSE", 2, 30, 'V', "VR"}, 101: {"HLOOKUP", 3, 4, 'V', "VRRV"},
	102: {"VLOOKUP", 3, 4, 'V', "VRRV"}, 105: {"ISREF", 1, 1, 'V', "R"},
	109: {"LOG", 1, 2, 'V', "VV"}, 111: {"CHAR", 1, 1, 'V', "V"},
	112: {"LOWER", 1, 1, 'V', "V"}, 113: {"UPPER", 1, 1, 'V', "V"},
	114: {"PROPER", 1, 1, 'V', "V"}, 115: {"LEFT", 1, 2, 'V', "VV"},
	116: {"RIGHT", 1, 2, 'V', "VV"}, 117: {"EXACT", 2, 2, 'V', "VV"},
	118: {"TRIM", 1, 1, 'V', "V"}, 119: {"REPLACE", 4, 4, 'V', "VVVV"},
	120: {"SUBSTITUTE", 3, 4, 'V', "VVVV"}, 121: {"CODE", 1, 1, 'V', "V"},
	124: {"FIND", 2, 3, 'V', "VVV"}, 125: {"CELL", 1, 2, 'V', "VR"},
	126: {"ISERR", 1, 1, 'V', "V"}, 127: {"ISTEXT", 1, 1, 'V', "V"},
	128: {"ISNUMBER", 1, 1, 'V', "V"}, 129: {"ISBLANK", 1, 1, 'V', "V"},
	130: {"T", 1, 1, 'V', "R"}, 131: {"N", 1, 1, 'V', "R"},
	140: {"DATEVALUE", 1, 1, 'V', "V"}, 141: {"TIMEVALUE", 1, 1, 'V', "V"},
	142: {"SLN", 3, 3, 'V', "VVV"}, 143: {"SYD", 4, 4, 'V', "VVVV"},
	144: {"DDB", 4, 5, 'V', "VVVVV"}, 148: {"INDIRECT", 1, 2, 'R', "VV"},
	162: {"CLEAN", 1, 1, 'V', "V"}, 163: {"MDETERM", 1, 1, 'V', "A"},
	164: {"MINVERSE", 1, 1, 'A', "A"}, 165: {"MMULT", 2, 2, 'A', "AA"},
	167: {"IPMT", 4, 6, 'V', "VVVVVV"}, 168: {"PPMT", 4, 6, 'V', "VVVVVV"},
	169: {"COUNTA", 0, 30, 'V', "R"}, 183: {"PRODUCT", 0, 30, 'V', "R"},
	184: {"FACT", 1, 1, 'V', "V"}, 189: {"DPRODUCT", 3, 3, 'V', "RRR"},
	190: {"ISNONTEXT", 1, 1, 'V', "V"}, 193: {"STDEVP", 1, 30, 'V', "R"},
	194: {"VARP", 1, 30, 'V', "R"}, 195: {"DSTDEVP", 3, 3, 'V', "RRR"},
	196: {"DVARP", 3, 3, 'V', "RRR"}, 197: {"TRUNC", 1, 2, 'V', "VV"},
	198: {"ISLOGICAL", 1, 1, 'V', "V"}, 199: {"DCOUNTA", 3, 3, 'V', "RRR"},
	212: {"ROUNDUP", 2, 2, 'V', "VV"}, 213: {"ROUNDDOWN", 2, 2, 'V', "VV"},
	216: {"RANK", 2, 3, 'V', "VRV"}, 219: {"ADDRESS", 2, 5, 'V', "VVVVV"},
	220: {"DAYS360", 2, 3, 'V', "VVV"}, 221: {"TODAY", 0, 0, 'V', ""},
	222: {"VDB", 5, 7, 'V', "VVVVVVV"}, 227: {"MEDIAN", 1, 30, 'V', "R"},
	228: {"SUMPRODUCT", 1, 30, 'V', "A"}, 229: {"SINH", 1, 1, 'V', "V"},
	230: {"COSH", 1, 1, 'V', "V"}, 231: {"TANH", 1, 1, 'V', "V"},
	232: {"ASINH", 1, 1, 'V', "V"}, 233: {"ACOSH", 1, 1, 'V', "V"},
	234: {"ATANH", 1, 1, 'V', "V"}, 235: {"DGET", 3, 3, 'V', "RRR"},
	244: {"INFO", 1, 1, 'V', "V"}, 247: {"DB", 4, 5, 'V', "VVVVV"},
	252: {"FREQUENCY", 2, 2, 'A', "RR"}, 261: {"ERROR.TYPE", 1, 1, 'V', "V"},
	269: {"AVEDEV", 1, 30, 'V', "R"}, 276: {"COMBIN", 2, 2, 'V', "VV"},
	279: {"EVEN", 1, 1, 'V', "V"}, 285: {"FLOOR", 2, 2, 'V', "VV"},
	288: {"CEILING", 2, 2, 'V', "VV"}, 298: {"ODD", 1, 1, 'V', "V"},
	312: {"CORREL", 2, 2, 'V', "AA"}, 318: {"DEVSQ", 1, 30, 'V', "R"},
	319: {"GEOMEAN", 1, 30, 'V', "R"}, 321: {"SUMSQ", 1, 30, 'V', "R"},
	325: {"LARGE", 2, 2, 'V', "RV"}, 326: {"SMALL", 2, 2, 'V', "RV"},
	336: {"CONCATENATE", 0, 30, 'V', "V"}, 337: {"POWER", 2, 2, 'V', "VV"},
	342: {"RADIANS", 1, 1, 'V', "V"}, 343: {"DEGREES", 1, 1, 'V', "V"},
	344: {"SUBTOTAL", 2, 30, 'V', "VR"}, 345: {"SUMIF", 2, 3, 'V', "RVR"},
	346: {"COUNTIF", 2, 2, 'V', "RV"}, 347: {"COUNTBLANK", 1, 1, 'V', "R"},
	354: {"ROMAN", 1, 2, 'V', "VV"}, 359: {"HYPERLINK", 1, 2, 'V', "VV"},
	361: {"AVERAGEA", 1, 30, 'V', "R"}, 362: {"MAXA", 1, 30, 'V', "R"},
	363: {"MINA", 1, 30, 'V', "R"},
}

var (
	functionsByIndex = map[uint16]Function{}
	functionsByName  = map[string]Function{}
)

func init() {
	for idx, d := range funcDefs {
		f := Function{Index: idx, Name: d.name, Min: d.min, Max: d.max, Return: argClass(d.ret)}
		for i := 0; i < len(d.args); i++ {
			f.Args = append(f.Args, argClass(d.args[i]))
		}
		functionsByIndex[idx] = f
		functionsByName[d.name] = f
	}
}

func argClass(b byte) Class {
	switch b {
	case 'R':
		return ClassRef
	case 'A':
		return ClassArray
	}
	return ClassValue
}

// LookupFunction returns the function stored under index. Bit 15 of a
// FuncVar index is not part of the index.
func LookupFunction(index uint16) (Function, bool) {
	f, ok := functionsByIndex[index&0x7FFF]
	return f, ok
}

// FunctionByName finds a function by its case-insensitive name.
func FunctionByName(name string) (Function, bool) {
	f, ok := functionsByName[strings.ToUpper(name)]
	return f, ok
}
