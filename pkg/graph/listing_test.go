package graph

import (
	"context"
	"testing"

	"github.com/OFFIS-RIT/kgraph/pkg/annotator/annotatortest"
	"github.com/OFFIS-RIT/kgraph/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntities(t *testing.T) {
	byText := map[string]*common.Annotation{
		annotatortest.ScenarioText: annotatortest.ScenarioAnnotation(),
		"X y Juan.": {Sentences: []common.Sentence{{
			Mentions: []common.EntityMention{
				{Text: "X", NER: "ORGANIZATION"},
				{Text: " Juan ", NER: "PERSON"},
			},
		}}},
	}
	client := newTestClient(t, annotatortest.Static(byText))

	docs := []common.Document{
		{ID: "d1", Name: "uno.txt", Text: annotatortest.ScenarioText},
		{ID: "d2", Text: "X y Juan."},
		{ID: "d3", Text: "   "},
	}
	out, err := client.ListEntities(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, DocumentEntities{ID: "d1", Name: "uno.txt", Entities: []string{"Juan", "Madrid", "Acme"}}, out[0])
	assert.Equal(t, []string{"Juan"}, out[1].Entities)
	assert.Equal(t, []string{}, out[2].Entities)
}

func TestListRelations(t *testing.T) {
	byText := map[string]*common.Annotation{
		"Juan vive en Madrid.": {Sentences: []common.Sentence{{
			OpenRelations: []common.OpenRelation{
				{SubjectText: "Juan", RelationText: "vive en", ObjectText: "Madrid"},
				{SubjectText: "Juan", RelationText: "", ObjectText: "Madrid"},
			},
		}}},
	}
	client := newTestClient(t, annotatortest.Static(byText))

	out, err := client.ListRelations(context.Background(), []string{"Juan vive en Madrid.", "Nada."}, "es")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []RelationTriple{{Subject: "Juan", Relation: "vive en", Object: "Madrid"}}, out[0])
	assert.Empty(t, out[1])
}

func TestListingCanceled(t *testing.T) {
	client := newTestClient(t, annotatortest.Static(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListEntities(ctx, []common.Document{{ID: "d1", Text: "Hola."}})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = client.ListRelations(ctx, []string{"Hola."}, "")
	assert.ErrorIs(t, err, context.Canceled)
}
