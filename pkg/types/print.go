package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Render returns the canonical selector text of a node. Parsing the result
// yields a structurally identical AST for any parser-produced tree.
//
// The accessor compiler renders failing sub-paths through this function;
// precedence is re-derived from the parser's binding-power table so that
// parentheses are inserted exactly where reparsing would otherwise
// associate differently.
func Render(n Node) string {
	return render(n, 0)
}

// nodePrecedence mirrors the parser's binding powers: the value of a node
// is the binding power of the operator that produced it, or a high value
// for primaries that never need parenthesizing.
func nodePrecedence(n Node) int {
	switch t := n.(type) {
	case *ExpressionRef, *Let:
		return 0
	case *Pipe:
		return 1
	case *Ternary:
		return 2
	case *Or:
		return 3
	case *And:
		return 4
	case *Compare:
		return 7
	case *Arithmetic:
		if t.Op == ArithAdd || t.Op == ArithSubtract {
			return 8
		}
		return 9
	case *Flatten:
		return 9
	case *Filter, *Project, *Slice:
		return 21
	case *ObjectProject:
		return 39
	case *FieldAccess:
		return 40
	case *Not, *UnaryArithmetic:
		return 45
	case *IndexAccess, *IdAccess:
		return 55
	default:
		return 100
	}
}

func render(n Node, minBP int) string {
	s := renderNode(n)
	if nodePrecedence(n) < minBP {
		return "(" + s + ")"
	}
	return s
}

func renderNode(n Node) string {
	switch t := n.(type) {
	case *Current:
		return "@"
	case *Root:
		return "$"
	case *Literal:
		return renderLiteral(t.Value)
	case *Identifier:
		return renderFieldName(t.ID)
	case *FieldAccess:
		return render(t.Expr, 40) + "." + renderFieldName(t.Field)
	case *IndexAccess:
		return render(t.Expr, 40) + "[" + strconv.Itoa(t.Index) + "]"
	case *IdAccess:
		return render(t.Expr, 40) + "[" + renderRawString(t.ID) + "]"
	case *Project:
		return render(t.Expr, 40) + "[*]" + renderTrail(t.Projection)
	case *ObjectProject:
		return render(t.Expr, 40) + ".*" + renderTrail(t.Projection)
	case *Filter:
		return render(t.Expr, 40) + "[?" + render(t.Condition, 0) + "]" + renderTrail(t.Projection)
	case *Slice:
		return render(t.Expr, 40) + sliceBrackets(t) + renderTrail(t.Projection)
	case *Flatten:
		return render(t.Expr, 9) + "[]" + renderTrail(t.Projection)
	case *Not:
		return "!" + render(t.Expr, 46)
	case *Compare:
		return render(t.LHS, 7) + " " + string(t.Op) + " " + render(t.RHS, 8)
	case *Arithmetic:
		bp := nodePrecedence(t)
		return render(t.LHS, bp) + " " + string(t.Op) + " " + render(t.RHS, bp+1)
	case *UnaryArithmetic:
		// A space keeps a negated number literal from lexing as one token.
		if lit, ok := t.Expr.(*Literal); ok {
			if _, isNum := AsNumber(lit.Value); isNum {
				return string(t.Op) + " " + render(t.Expr, 46)
			}
		}
		return string(t.Op) + render(t.Expr, 46)
	case *And:
		return render(t.LHS, 4) + " && " + render(t.RHS, 5)
	case *Or:
		return render(t.LHS, 3) + " || " + render(t.RHS, 4)
	case *Ternary:
		return render(t.Condition, 3) + " ? " + render(t.Then, 0) + " : " + render(t.Else, 2)
	case *Pipe:
		return render(t.LHS, 1) + " | " + render(t.RHS, 2)
	case *FunctionCall:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = render(a, 0)
		}
		return t.Name + "(" + strings.Join(args, ", ") + ")"
	case *ExpressionRef:
		return "&" + render(t.Expr, 0)
	case *VariableRef:
		return "$" + t.Name
	case *Let:
		parts := make([]string, len(t.Bindings))
		for i, b := range t.Bindings {
			parts[i] = "$" + b.Name + " := " + render(b.Value, 0)
		}
		return "let " + strings.Join(parts, ", ") + " in " + render(t.Body, 0)
	case *MultiSelectList:
		elems := make([]string, len(t.Expressions))
		for i, e := range t.Expressions {
			elems[i] = render(e, 0)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *MultiSelectHash:
		entries := make([]string, len(t.Entries))
		for i, e := range t.Entries {
			entries[i] = renderFieldName(e.Key) + ": " + render(e.Value, 0)
		}
		return "{" + strings.Join(entries, ", ") + "}"
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

// renderTrail renders a projection continuation, an expression rooted at an
// implicit Current node, as the postfix chain that re-attaches it to its
// projection when reparsed.
func renderTrail(n Node) string {
	if n == nil {
		return ""
	}
	switch t := n.(type) {
	case *Current:
		return ""
	case *FieldAccess:
		return renderTrail(t.Expr) + "." + renderFieldName(t.Field)
	case *IndexAccess:
		return renderTrail(t.Expr) + "[" + strconv.Itoa(t.Index) + "]"
	case *IdAccess:
		return renderTrail(t.Expr) + "[" + renderRawString(t.ID) + "]"
	case *Project:
		return renderTrail(t.Expr) + "[*]" + renderTrail(t.Projection)
	case *ObjectProject:
		return renderTrail(t.Expr) + ".*" + renderTrail(t.Projection)
	case *Filter:
		return renderTrail(t.Expr) + "[?" + render(t.Condition, 0) + "]" + renderTrail(t.Projection)
	case *Slice:
		return renderTrail(t.Expr) + sliceBrackets(t) + renderTrail(t.Projection)
	case *Flatten:
		return renderTrail(t.Expr) + "[]" + renderTrail(t.Projection)
	case *Pipe:
		// Dot-applied multi-selects and function calls are desugared to a
		// pipe rooted at the element.
		if _, ok := t.LHS.(*Current); ok {
			return "." + render(t.RHS, 0)
		}
	}
	// Not a postfix chain; parser-produced projections never reach here.
	return " | " + render(n, 2)
}

func sliceBrackets(t *Slice) string {
	var sb strings.Builder
	sb.WriteByte('[')
	if t.Start != nil {
		sb.WriteString(strconv.Itoa(*t.Start))
	}
	sb.WriteByte(':')
	if t.End != nil {
		sb.WriteString(strconv.Itoa(*t.End))
	}
	if t.Step != nil {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(*t.Step))
	}
	sb.WriteByte(']')
	return sb.String()
}

func renderLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return renderRawString(t)
	default:
		if f, ok := AsNumber(v); ok {
			return formatNumber(f)
		}
		// Structured literals round-trip through a backtick JSON literal.
		b, err := json.Marshal(v)
		if err != nil {
			return "`null`"
		}
		return "`" + strings.ReplaceAll(string(b), "`", "\\`") + "`"
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func renderRawString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// renderFieldName renders a field name bare when it lexes back as a single
// identifier token, quoted otherwise.
func renderFieldName(s string) string {
	if isBareIdentifier(s) {
		return s
	}
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return strings.ReplaceAll(string(b), "`", "\\`")
}

func isBareIdentifier(s string) bool {
	if s == "" || s == "true" || s == "false" || s == "null" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
