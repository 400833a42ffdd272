package resolver

import (
	"slices"
	"testing"

	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	doc := map[string]any{
		"paths": map[string]any{
			"/pets": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						map[string]any{"$ref": "#/parameters/limit"},
						map[string]any{"name": "q", "in": "query"},
					},
				},
			},
		},
		"definitions": map[string]any{
			"Pet": map[string]any{
				"$ref":        "pet.yaml#/Pet",
				"description": map[string]any{"$ref": "#/ignored"},
			},
			"Odd": map[string]any{
				"properties": map[string]any{
					"$ref": map[string]any{"type": "string"},
				},
			},
		},
	}

	got := slices.Collect(Scan(doc))
	assert.Equal(t, []Reference{
		{Ref: "pet.yaml#/Pet", Path: pathaccess.Path{"definitions", "Pet"}},
		{Ref: "#/parameters/limit", Path: pathaccess.Path{"paths", "/pets", "get", "parameters", 0}},
	}, got)
}

func TestScanRootReference(t *testing.T) {
	got := slices.Collect(Scan(map[string]any{"$ref": "other.yaml"}))
	assert.Equal(t, []Reference{{Ref: "other.yaml", Path: pathaccess.Path{}}}, got)
}

func TestScanScalarsAndEmpty(t *testing.T) {
	assert.Empty(t, slices.Collect(Scan("text")))
	assert.Empty(t, slices.Collect(Scan(nil)))
	assert.Empty(t, slices.Collect(Scan(map[string]any{"$ref": 42})))
}

func TestScanRestartableAndStoppable(t *testing.T) {
	doc := []any{
		map[string]any{"$ref": "#/a"},
		map[string]any{"$ref": "#/b"},
		map[string]any{"$ref": "#/c"},
	}
	seq := Scan(doc)
	assert.Len(t, slices.Collect(seq), 3)
	assert.Len(t, slices.Collect(seq), 3)

	var first []string
	for ref := range seq {
		first = append(first, ref.Ref)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"#/a", "#/b"}, first)
}
