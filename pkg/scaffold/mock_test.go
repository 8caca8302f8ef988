package scaffold_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/scaffold/pkg/domain"
	"github.com/specvital/scaffold/pkg/prompt"
	"github.com/specvital/scaffold/pkg/source"
)

const jonSource = `import { DateString } from "./types"

export type Jon = {
  name: string
  born: DateString
  alive?: boolean
}

export interface Arya {
  age: number
}
`

func TestCreateMock_Jon(t *testing.T) {
	src := source.NewMemorySource("/ws", map[string]string{
		"src/jon.ts":   jonSource,
		"src/types.ts": "export type DateString = string\n",
	})
	s, opener := newScaffolder(t, src, domain.SameDirectory, nil)

	res, err := s.CreateMock(context.Background(), "src/jon.ts", "Jon")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCreated, res.Outcome)
	assert.Equal(t, "/ws/src/__mocks__/jon.mock.ts", res.Target)
	assert.Equal(t, []string{res.Target}, opener.opened)

	got, ok := src.File(res.Target)
	require.True(t, ok)
	assert.Equal(t, `import { Jon } from "../jon"
import { DateString } from "../types"

export const mockJon: Jon = {
    name: "string value",
    born: "03-12-2020",
    alive: false,
}
`, got)
}

func TestCreateMock_Append(t *testing.T) {
	src := source.NewMemorySource("/ws", map[string]string{
		"src/jon.ts":   jonSource,
		"src/types.ts": "export type DateString = string\n",
	})
	s, _ := newScaffolder(t, src, domain.SameDirectory, nil)
	ctx := context.Background()

	_, err := s.CreateMock(ctx, "src/jon.ts", "Jon")
	require.NoError(t, err)

	res, err := s.CreateMock(ctx, "src/jon.ts", "Arya")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAppended, res.Outcome)

	got, _ := src.File(res.Target)
	assert.Contains(t, got, "export const mockJon: Jon = {")
	assert.Contains(t, got, "export const mockArya: Arya = {\n    age: 1,\n}")
	assert.Equal(t, 1, countOccurrences(got, `import { DateString } from "../types"`))

	again, err := s.CreateMock(ctx, "src/jon.ts", "Arya")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeExisting, again.Outcome)
	assert.Len(t, src.Writes(), 2)
}

func TestCreateMock_PickType(t *testing.T) {
	tests := []struct {
		name    string
		chooser prompt.Chooser
		outcome domain.Outcome
		target  string
	}{
		{"picked", prompt.NewScripted("Arya"), domain.OutcomeCreated, "mockArya"},
		{"cancelled", prompt.NewScripted(prompt.Cancel), domain.OutcomeCancelled, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.NewMemorySource("/ws", map[string]string{"src/jon.ts": jonSource})
			s, _ := newScaffolder(t, src, domain.SameDirectory, tt.chooser)

			res, err := s.CreateMock(context.Background(), "src/jon.ts", "")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)

			got, _ := src.File("src/__mocks__/jon.mock.ts")
			if tt.target == "" {
				assert.Empty(t, src.Writes())
				return
			}
			assert.Contains(t, got, tt.target)
		})
	}
}

func TestCreateMock_NoTypes(t *testing.T) {
	src := source.NewMemorySource("/ws", map[string]string{
		"src/westeros.ts": "export function jon() {}\n",
	})
	s, _ := newScaffolder(t, src, domain.SameDirectory, nil)

	res, err := s.CreateMock(context.Background(), "src/westeros.ts", "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkipped, res.Outcome)
	assert.Empty(t, src.Writes())
}

func TestCreateMock_UnresolvedReference(t *testing.T) {
	src := source.NewMemorySource("/ws", map[string]string{
		"src/castle.ts": `import { Stone } from "quarry"

export type Castle = Stone & {
  towers: number
}
`,
	})
	s, _ := newScaffolder(t, src, domain.SameDirectory, nil)

	res, err := s.CreateMock(context.Background(), "src/castle.ts", "Castle")
	require.NoError(t, err)

	got, _ := src.File(res.Target)
	assert.Contains(t, got, "towers: 1,")
}

func TestMockPath(t *testing.T) {
	s, _ := newScaffolder(t, source.NewMemorySource("/ws", nil), domain.SameDirectory, nil)

	assert.Equal(t, "/ws/src/__mocks__/jon.mock.ts", s.MockPath("/ws/src/jon.ts"))
	assert.Equal(t, "/ws/src/__mocks__/Castle.mock.ts", s.MockPath("/ws/src/Castle.tsx"))
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
