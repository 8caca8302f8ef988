// Package tspool provides tree-sitter parsers for the TypeScript dialects.
//
// Parsers are created fresh per call. When a context is cancelled during
// ParseCtx the parser's internal cancel flag is set but not reset, so reusing
// a parser after a cancelled parse fails with "operation limit was hit".
//
// Thread-safety: parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/specvital/scaffold/pkg/domain"
)

var (
	tsLang  *sitter.Language
	tsxLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		tsLang = typescript.GetLanguage()
		tsxLang = tsx.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given dialect.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	if lang == domain.LanguageTSX {
		return tsxLang
	}
	return tsLang
}

// Get returns a parser for the given dialect.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(GetLanguage(lang))
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser := Get(lang)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", lang)
	}
	if tree == nil {
		return nil, errors.Newf("parse %s: no tree produced", lang)
	}

	return tree, nil
}
