package cfg

import (
	"math"
	"strconv"
	"strings"

	"github.com/jarl-lint/jarl/pkg/syntax"
)

// ConstantCondition evaluates an expression used as a branch or loop
// condition to a compile-time boolean where possible. The second return
// value is false when the condition is not statically decidable.
//
// Recognized forms: TRUE/FALSE literals, numeric literals (nonzero is true,
// zero is false, NaN is undecidable), parenthesized expressions, unary `!`,
// and the short-circuit behavior of `&&`, `&`, `||`, `|`.
func ConstantCondition(n *syntax.Node) (bool, bool) {
	if n == nil {
		return false, false
	}
	switch n.Kind {
	case syntax.KindTrue:
		return true, true
	case syntax.KindFalse:
		return false, true
	case syntax.KindNumber:
		return numericTruthiness(n.Text)
	case syntax.KindInf:
		return true, true
	case syntax.KindNaN:
		return false, false
	case syntax.KindParen:
		return ConstantCondition(n.Child(0))
	case syntax.KindUnary:
		if n.Op == "!" {
			if v, ok := ConstantCondition(n.Operand()); ok {
				return !v, true
			}
		}
		return false, false
	case syntax.KindBinary:
		return foldBinary(n)
	}
	return false, false
}

func foldBinary(n *syntax.Node) (bool, bool) {
	lv, lok := ConstantCondition(n.Left())
	rv, rok := ConstantCondition(n.Right())

	switch n.Op {
	case "|", "||":
		// TRUE on either side wins regardless of the other operand.
		if (lok && lv) || (rok && rv) {
			return true, true
		}
		if lok && rok && !lv && !rv {
			return false, true
		}
	case "&", "&&":
		// FALSE on either side wins regardless of the other operand.
		if (lok && !lv) || (rok && !rv) {
			return false, true
		}
		if lok && rok && lv && rv {
			return true, true
		}
	}
	return false, false
}

// numericTruthiness applies R's coercion of numbers to logicals: any
// nonzero value is TRUE, zero is FALSE, NaN is an error at runtime and
// therefore undecidable here.
func numericTruthiness(text string) (bool, bool) {
	text = strings.TrimSuffix(strings.TrimSuffix(text, "L"), "i")
	var v float64
	var err error
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		var u uint64
		u, err = strconv.ParseUint(text[2:], 16, 64)
		v = float64(u)
	} else {
		v, err = strconv.ParseFloat(text, 64)
	}
	if err != nil || math.IsNaN(v) {
		return false, false
	}
	return v != 0, true
}
