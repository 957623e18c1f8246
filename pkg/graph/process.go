package graph

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// processDocument annotates the units of one document concurrently and then
// applies them to the run in document order, so the registry and edge store
// only ever see one writer.
//
// It returns an error only when ctx is done.
func (g *GraphClient) processDocument(ctx context.Context, r *graphRun, doc common.Document) error {
	units, err := g.Chunker().Split(doc.ID, doc.Text)
	if err != nil {
		logger.Error("[Graph] Failed to split document", "document_id", doc.ID, "err", err)
		return nil
	}

	language := g.languageOf(doc)

	logger.Debug("[Graph] Annotating document", "document_id", doc.ID, "units", len(units), "language", language)

	annotations, err := g.annotateUnits(ctx, units, language)
	if err != nil {
		return err
	}

	for i, ann := range annotations {
		if ann == nil {
			continue
		}
		for _, sentence := range ann.Sentences {
			r.extractor.extractSentence(sentence, doc.ID)
		}
		r.corefs = append(r.corefs, ann.Corefs...)
		logger.Debug("[Graph] Applied unit", "document_id", doc.ID, "unit_id", units[i].ID, "sentences", len(ann.Sentences))
	}

	return nil
}

// annotateUnits returns one annotation per unit, nil for units whose
// annotation failed after retries.
func (g *GraphClient) annotateUnits(ctx context.Context, units []common.Unit, language string) ([]*common.Annotation, error) {
	annotations := make([]*common.Annotation, len(units))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelAnnotations)
	for i, unit := range units {
		eg.Go(func() error {
			req := annotator.AnnotateRequest{Text: unit.Text, Language: language}
			ann, err := util.RetryWithContext(gCtx, g.maxRetries, func(ctx context.Context) (*common.Annotation, error) {
				ann, err := g.annotator.Annotate(ctx, req)
				if errors.Is(err, annotator.ErrEmptyText) {
					return nil, util.Permanent(err)
				}
				return ann, err
			})
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Error("[Graph] Failed to annotate unit", "document_id", unit.DocumentID, "unit_id", unit.ID, "err", err)
				return nil
			}
			annotations[i] = ann
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return annotations, nil
}
