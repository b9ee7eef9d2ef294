// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	errExpression = errors.New("invalid expression")
	errNotInteger = errors.New("expression is not an integer")
)

// EvalExpr evaluates an assembler expression. Numbers may be written in
// decimal, as $hex, as %binary or as a quoted 'c' character. The
// expression may use any symbol in the symbols map along with the
// arithmetic and bitwise operators of starlark.
func EvalExpr(expr string, symbols map[string]int) (int, error) {
	src, err := translateExpr(expr)
	if err != nil {
		return 0, err
	}

	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for k, v := range symbols {
		pred[k] = starlark.MakeInt(v)
	}

	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc = "+src+"\n", pred)
	if err != nil {
		return 0, errors.Wrapf(errExpression, "%s: %v", expr, err)
	}

	i, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, errors.Wrapf(errNotInteger, "%s", expr)
	}
	v, ok := i.Int64()
	if !ok {
		return 0, errors.Wrapf(errNotInteger, "%s", expr)
	}
	return int(v), nil
}

// translateExpr rewrites assembler number syntax into starlark syntax.
func translateExpr(expr string) (string, error) {
	var sb strings.Builder
	l := newFstring(0, strings.TrimSpace(expr))
	if l.isEmpty() {
		return "", errors.Wrapf(errExpression, "empty expression")
	}

	value := false // the previous token was a value
	for !l.isEmpty() {
		switch c := l.str[0]; {
		case c == '$':
			var digits fstring
			l = l.consume(1)
			digits, l = l.consumeWhile(hexadecimal)
			if digits.isEmpty() {
				return "", errors.Wrapf(errExpression, "%s: bad hex number", expr)
			}
			sb.WriteString("0x" + digits.str)
			value = true

		case c == '%' && !value && len(l.str) > 1 && binarynum(l.str[1]):
			var digits fstring
			l = l.consume(1)
			digits, l = l.consumeWhile(binarynum)
			sb.WriteString("0b" + digits.str)
			value = true

		case c == '\'':
			if len(l.str) < 3 || l.str[2] != '\'' {
				return "", errors.Wrapf(errExpression, "%s: bad character literal", expr)
			}
			sb.WriteString(strconv.Itoa(int(l.str[1])))
			l = l.consume(3)
			value = true

		case labelChar(c):
			var word fstring
			word, l = l.consumeWhile(labelChar)
			sb.WriteString(word.str)
			value = true

		case whitespace(c):
			sb.WriteByte(' ')
			l = l.consumeWhitespace()

		default:
			sb.WriteByte(c)
			l = l.consume(1)
			value = c == ')'
		}
	}
	return sb.String(), nil
}
