// Package expr parses the textual filter syntax of the rowset CLI:
//
//	status|state == 'open'|'new' AND age >= 18 AND name cel('a.startsWith(b)') 'al'
//
// Each AND-separated rule lists fields, comparators and values separated by
// '|'. A rule matches when any field matches any comparator against any value.
//
// Fields that collide with a keyword, or contain other characters, are
// quoted with backticks:
//
//	`null` == 1 AND `first name` == 'Ann'
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/cast"

	"github.com/Alp4ka/rowset"
)

type astFilter struct {
	Rules []*astRule `parser:"@@ ( 'AND' @@ )*"`
}

type astRule struct {
	Fields []string    `parser:"@(Path | Ident | Field) ( '|' @(Path | Ident | Field) )*"`
	Ops    []*astOp    `parser:"@@ ( '|' @@ )*"`
	Values []*astValue `parser:"@@ ( '|' @@ )*"`
}

type astOp struct {
	Builtin *string `parser:"  @Operator"`
	CEL     *string `parser:"| 'CEL' '(' @String ')'"`
}

type astValue struct {
	Number *string `parser:"  @Number"`
	String *string `parser:"| @String"`
	Bool   *string `parser:"| @('TRUE' | 'FALSE')"`
	Null   bool    `parser:"| @'NULL'"`
}

var (
	filterLexer = lexer.MustSimple([]lexer.SimpleRule{
		// A dotted path is a field even when its first segment is a keyword.
		{Name: "Path", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z0-9_.]*`},
		{Name: "Keyword", Pattern: `(?i)\b(AND|TRUE|FALSE|NULL|CEL)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Field", Pattern: "`[^`]+`"},
		{Name: "Number", Pattern: `[-+]?\d*\.?\d+`},
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "Operator", Pattern: `===|!==|==|!=|>=|<=|[<>]`},
		{Name: "Punct", Pattern: `[|()]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	filterParser = participle.MustBuild[astFilter](
		participle.Lexer(filterLexer),
		participle.Unquote("String", "Field"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
	)
)

// Resolver compiles the body of a cel(...) comparator.
type Resolver func(expr string) (rowset.MatchFunc, error)

// ErrNoResolver is returned when an expression uses cel(...) but Parse was
// given no Resolver.
var ErrNoResolver = errors.New("custom comparators are not available")

// Parse parses input into filter rules. resolve may be nil when custom
// comparators are not needed.
func Parse(input string, resolve Resolver) (rowset.FilterRules, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty filter expression")
	}

	ast, err := filterParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	rules := make(rowset.FilterRules, 0, len(ast.Rules))
	for _, r := range ast.Rules {
		rule, err := r.toRule(resolve)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// ParseAll parses several expressions and joins their rules.
func ParseAll(inputs []string, resolve Resolver) (rowset.FilterRules, error) {
	var rules rowset.FilterRules
	for _, in := range inputs {
		rs, err := Parse(in, resolve)
		if err != nil {
			return nil, fmt.Errorf("filter '%s': %w", in, err)
		}
		rules = append(rules, rs...)
	}

	return rules, nil
}

func (r *astRule) toRule(resolve Resolver) (rowset.FilterRule, error) {
	rule := rowset.FilterRule{Fields: r.Fields}

	for _, op := range r.Ops {
		c, err := op.comparator(resolve)
		if err != nil {
			return rowset.FilterRule{}, err
		}
		rule.Comparators = append(rule.Comparators, c)
	}

	for _, v := range r.Values {
		val, err := v.value()
		if err != nil {
			return rowset.FilterRule{}, err
		}
		rule.Values = append(rule.Values, val)
	}

	return rule, nil
}

func (o *astOp) comparator(resolve Resolver) (rowset.Comparator, error) {
	if o.Builtin != nil {
		return rowset.ParseOperator(*o.Builtin)
	}

	if resolve == nil {
		return nil, ErrNoResolver
	}
	match, err := resolve(*o.CEL)
	if err != nil {
		return nil, fmt.Errorf("comparator '%s': %w", *o.CEL, err)
	}

	return match, nil
}

func (v *astValue) value() (any, error) {
	switch {
	case v.Number != nil:
		f, err := cast.ToFloat64E(*v.Number)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s': %w", *v.Number, err)
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case v.String != nil:
		return *v.String, nil
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "true"), nil
	default:
		return nil, nil
	}
}
