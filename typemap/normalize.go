package typemap

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"github.com/teranos/bindgen/errors"
)

// ParseTypeExpr parses a written Go type expression ("[]*Point",
// "map[string]int", "C.int").
func ParseTypeExpr(src string) (ast.Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.NewInvalidInputError("empty type expression")
	}
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid type expression %q", src)
	}
	if bad := nonType(expr); bad != nil {
		return nil, errors.NewInvalidInputError("%q is not a type expression (%s is a value)",
			src, types.ExprString(bad))
	}
	return expr, nil
}

// nonType returns the first subexpression that cannot denote a type, or nil.
// Array lengths are values and are not checked.
func nonType(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.Ident, *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return nil
	case *ast.SelectorExpr:
		if _, ok := e.X.(*ast.Ident); ok {
			return nil
		}
		return e
	case *ast.ParenExpr:
		return nonType(e.X)
	case *ast.StarExpr:
		return nonType(e.X)
	case *ast.ArrayType:
		return nonType(e.Elt)
	case *ast.MapType:
		if bad := nonType(e.Key); bad != nil {
			return bad
		}
		return nonType(e.Value)
	case *ast.ChanType:
		return nonType(e.Value)
	case *ast.IndexExpr:
		if bad := nonType(e.X); bad != nil {
			return bad
		}
		return nonType(e.Index)
	case *ast.IndexListExpr:
		if bad := nonType(e.X); bad != nil {
			return bad
		}
		for _, ix := range e.Indices {
			if bad := nonType(ix); bad != nil {
				return bad
			}
		}
		return nil
	default:
		return expr
	}
}

// NormalizeExpr is the deterministic projection of a type expression used as
// the registry key. Spelling differences in whitespace and parentheses around
// plain types disappear: "[] * Point" and "[]*Point" normalize the same.
func NormalizeExpr(expr ast.Expr) string {
	return types.ExprString(unparen(expr))
}

// NormalizeString parses and normalizes a written type expression.
func NormalizeString(src string) (ast.Expr, string, error) {
	expr, err := ParseTypeExpr(src)
	if err != nil {
		return nil, "", err
	}
	return expr, NormalizeExpr(expr), nil
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}
