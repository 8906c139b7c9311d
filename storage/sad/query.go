package sad

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/fen-analytics/sad/core"
)

// ReadQuery reads a query file. UTF-8 is assumed unless a byte order mark says otherwise
// (SSMS saves UTF-16 with a BOM); the BOM itself is dropped.
func ReadQuery(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(f, dec))
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", path)
	}
	return string(b), nil
}

// BindPositional turns legacy format placeholders into ? bind parameters and orders params to match.
// {n} picks params[n], {} takes the next param in order and {{ and }} stand for literal braces. A quoted '{n}' or '{}' becomes a bare bind parameter, values are
// never spliced into the query text.
//
// Without params the query is returned untouched, braces included. When the query has no format
// placeholder, params are returned as they are, for ? placeholders; a query with neither fails.
func BindPositional(query string, params []interface{}) (string, []interface{}, error) {
	if len(params) == 0 {
		return query, params, nil
	}

	var (
		out          = make([]byte, 0, len(query))
		args         []interface{}
		next         int // next automatic field
		auto, manual bool
	)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case (c == '{' || c == '}') && i+1 < len(query) && query[i+1] == c:
			out = append(out, c)
			i++
			continue
		case c == '}':
			return "", nil, core.NewInvalidInputError("}", "single '}' in query, use '}}' for a literal brace")
		case c != '{':
			out = append(out, c)
			continue
		}

		end := strings.IndexByte(query[i:], '}')
		if end < 0 {
			return "", nil, core.NewInvalidInputError("{", "unmatched '{' in query, use '{{' for a literal brace")
		}
		field := query[i : i+end+1]
		name := field[1 : len(field)-1]

		var idx int
		switch {
		case name == "":
			if manual {
				return "", nil, core.NewInvalidInputError(field, "cannot mix {} and {n} placeholders")
			}
			auto = true
			idx = next
			next++
		case isDigits(name):
			if auto {
				return "", nil, core.NewInvalidInputError(field, "cannot mix {} and {n} placeholders")
			}
			manual = true
			n, err := strconv.Atoi(name)
			if err != nil {
				return "", nil, core.NewInvalidInputError(field, "placeholder index out of range")
			}
			idx = n
		default:
			return "", nil, core.NewInvalidInputError(field, "only {} and {n} placeholders are supported")
		}
		if idx >= len(params) {
			return "", nil, core.NewInvalidInputError(field,
				"placeholder has no matching parameter ("+strconv.Itoa(len(params))+" given)")
		}

		i += end
		// '{n}' binds the value itself, quotes included
		if n := len(out); n > 0 && out[n-1] == '\'' && i+1 < len(query) && query[i+1] == '\'' {
			out = out[:n-1]
			i++
		}
		out = append(out, '?')
		args = append(args, params[idx])
	}

	if len(args) == 0 {
		if !strings.Contains(query, "?") {
			return "", nil, core.NewInvalidInputError(query,
				strconv.Itoa(len(params))+" parameters given but the query has no placeholder")
		}
		return string(out), params, nil
	}
	return string(out), args, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
