package apply

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SplitStatements splits a SQL script on top-level semicolons. Quoted
// strings, quoted identifiers and dollar-quoted bodies are kept intact.
// Comments are removed and empty statements are dropped.
func SplitStatements(sql string) []string {
	var (
		stmts []string
		buf   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			stmts = append(stmts, s)
		}
		buf.Reset()
	}

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"':
			j := skipQuoted(sql, i, c, c == '\'' && escapeString(sql, i))
			buf.WriteString(sql[i:j])
			i = j
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			if j := strings.IndexByte(sql[i:], '\n'); j >= 0 {
				i += j
			} else {
				i = len(sql)
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i = skipBlockComment(sql, i)
			buf.WriteByte(' ')
		case c == '$':
			tag, ok := dollarTag(sql, i)
			if !ok {
				buf.WriteByte(c)
				i++
				continue
			}
			j := len(sql)
			if end := strings.Index(sql[i+len(tag):], tag); end >= 0 {
				j = i + len(tag) + end + len(tag)
			}
			buf.WriteString(sql[i:j])
			i = j
		case c == ';':
			flush()
			i++
		default:
			buf.WriteByte(c)
			i++
		}
	}
	flush()
	return stmts
}

// Checksum identifies a schema text in the ledger.
func Checksum(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])
}

// skipQuoted returns the index just past the quote that closes the one at
// i. A doubled quote is an escaped quote, and so is a backslashed one when
// backslash is set.
func skipQuoted(s string, i int, q byte, backslash bool) int {
	for j := i + 1; j < len(s); j++ {
		if backslash && s[j] == '\\' {
			j++
			continue
		}
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// escapeString reports whether the quote at i opens an E'...' string.
func escapeString(s string, i int) bool {
	if i == 0 || (s[i-1] != 'E' && s[i-1] != 'e') {
		return false
	}
	return i == 1 || !isIdent(s[i-2])
}

// skipBlockComment handles nested /* */ comments.
func skipBlockComment(s string, i int) int {
	depth := 0
	for j := i; j+1 < len(s); {
		switch {
		case s[j] == '/' && s[j+1] == '*':
			depth++
			j += 2
		case s[j] == '*' && s[j+1] == '/':
			depth--
			j += 2
			if depth == 0 {
				return j
			}
		default:
			j++
		}
	}
	return len(s)
}

// dollarTag returns the $tag$ opening at i, if any. Positional parameters
// such as $1 are not tags.
func dollarTag(s string, i int) (string, bool) {
	if i > 0 && isIdent(s[i-1]) {
		return "", false
	}
	j := i + 1
	for ; j < len(s) && s[j] != '$'; j++ {
		if !isIdent(s[j]) || (j == i+1 && s[j] >= '0' && s[j] <= '9') {
			return "", false
		}
	}
	if j >= len(s) {
		return "", false
	}
	return s[i : j+1], true
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// firstLine is the statement's first line, used when listing statements.
func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
