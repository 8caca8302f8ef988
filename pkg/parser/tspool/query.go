package tspool

import (
	"sync"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/scaffold/pkg/domain"
)

type compiledKey struct {
	lang    domain.Language
	pattern string
}

type compiled struct {
	once  sync.Once
	query *sitter.Query
	err   error
}

// Compiled queries live for the whole process and are never closed.
var queries sync.Map

func compile(lang domain.Language, pattern string) (*sitter.Query, error) {
	entry, _ := queries.LoadOrStore(compiledKey{lang: lang, pattern: pattern}, &compiled{})
	c := entry.(*compiled)
	c.once.Do(func() {
		c.query, c.err = sitter.NewQuery([]byte(pattern), GetLanguage(lang))
		if c.err != nil {
			c.err = errors.Wrapf(c.err, "compile %s query", lang)
		}
	})
	return c.query, c.err
}

// Captures runs pattern under root and returns the nodes bound to the
// capture called name, in document order. Compiled patterns are cached per
// dialect.
func Captures(root *sitter.Node, lang domain.Language, pattern, name string) ([]*sitter.Node, error) {
	query, err := compile(lang, pattern)
	if err != nil {
		return nil, err
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var nodes []*sitter.Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return nodes, nil
		}
		for _, c := range match.Captures {
			if query.CaptureNameForId(c.Index) == name {
				nodes = append(nodes, c.Node)
			}
		}
	}
}
